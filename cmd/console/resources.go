package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	auditdomain "admin-console/desktop/internal/audit/domain"
	roledomain "admin-console/desktop/internal/role/domain"
	"admin-console/desktop/internal/transport"
	userdomain "admin-console/desktop/internal/user/domain"
	workspacedomain "admin-console/desktop/internal/workspace/domain"
)

// action splits args into the sub-action (default "list") and the rest.
func action(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "list", args
	}
	return args[0], args[1:]
}

func listFlags(fs *pflag.FlagSet) *transport.ListParams {
	p := &transport.ListParams{}
	fs.IntVar(&p.Page, "page", 0, "page number (1-based)")
	fs.IntVar(&p.Limit, "limit", 0, "page size")
	fs.StringVar(&p.Search, "search", "", "search text")
	return p
}

// oneID parses fs and returns its single positional argument.
func oneID(fs *pflag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: exactly one id is required", fs.Name())
	}
	return fs.Arg(0), nil
}

func unknownAction(resource, act string) error {
	return fmt.Errorf("%s: unknown action %q", resource, act)
}

func runUsers(ctx context.Context, c *cli, args []string) error {
	act, rest := action(args)
	repo := c.app.Users
	fs := c.subFlags("users " + act)
	switch act {
	case "list":
		params := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		page, err := repo.List(ctx, *params)
		if err != nil {
			return err
		}
		return c.printJSON(page)
	case "get":
		id, err := oneID(fs, rest)
		if err != nil {
			return err
		}
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return c.printJSON(u)
	case "create", "update":
		var in userdomain.CreateUser
		fs.StringVar(&in.ID, "id", "", "user id (update only)")
		fs.StringVar(&in.UserName, "username", "", "user name")
		fs.StringVar(&in.Email, "email", "", "email")
		fs.StringVar(&in.Role, "role", "", "role name")
		status := fs.String("status", "", "active or disabled")
		fs.StringVar(&in.Password, "password", "", "initial password (create only)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		in.Status = userdomain.UserStatus(*status)
		var (
			u   *userdomain.User
			err error
		)
		if act == "create" {
			u, err = repo.Create(ctx, &in)
		} else {
			u, err = repo.Update(ctx, &in.User)
		}
		if err != nil {
			return err
		}
		return c.printJSON(u)
	case "delete":
		id, err := oneID(fs, rest)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted user %s.\n", id)
		return nil
	}
	return unknownAction("users", act)
}

func runWorkspaces(ctx context.Context, c *cli, args []string) error {
	act, rest := action(args)
	repo := c.app.Workspaces
	fs := c.subFlags("workspaces " + act)
	switch act {
	case "list":
		params := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		page, err := repo.List(ctx, *params)
		if err != nil {
			return err
		}
		return c.printJSON(page)
	case "get":
		id, err := oneID(fs, rest)
		if err != nil {
			return err
		}
		w, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return c.printJSON(w)
	case "create", "update":
		var in workspacedomain.Workspace
		fs.StringVar(&in.ID, "id", "", "workspace id (update only)")
		fs.StringVar(&in.Name, "name", "", "workspace name")
		fs.StringVar(&in.Description, "description", "", "description")
		status := fs.String("status", "", "active or suspended")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		in.Status = workspacedomain.WorkspaceStatus(*status)
		var (
			w   *workspacedomain.Workspace
			err error
		)
		if act == "create" {
			w, err = repo.Create(ctx, &in)
		} else {
			w, err = repo.Update(ctx, &in)
		}
		if err != nil {
			return err
		}
		return c.printJSON(w)
	case "delete":
		id, err := oneID(fs, rest)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted workspace %s.\n", id)
		return nil
	}
	return unknownAction("workspaces", act)
}

func runRoles(ctx context.Context, c *cli, args []string) error {
	act, rest := action(args)
	repo := c.app.Roles
	fs := c.subFlags("roles " + act)
	switch act {
	case "list":
		params := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		page, err := repo.List(ctx, *params)
		if err != nil {
			return err
		}
		return c.printJSON(page)
	case "create", "update":
		var in roledomain.Role
		fs.StringVar(&in.ID, "id", "", "role id (update only)")
		fs.StringVar(&in.Name, "name", "", "role name")
		fs.StringVar(&in.Description, "description", "", "description")
		fs.StringSliceVar(&in.Permissions, "permission", nil, "permission (repeatable or comma-separated)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		var (
			r   *roledomain.Role
			err error
		)
		if act == "create" {
			r, err = repo.Create(ctx, &in)
		} else {
			r, err = repo.Update(ctx, &in)
		}
		if err != nil {
			return err
		}
		return c.printJSON(r)
	case "delete":
		id, err := oneID(fs, rest)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted role %s.\n", id)
		return nil
	}
	return unknownAction("roles", act)
}

func runAudit(ctx context.Context, c *cli, args []string) error {
	act, rest := action(args)
	if act != "list" {
		return unknownAction("audit", act)
	}
	fs := c.subFlags("audit list")
	params := listFlags(fs)
	var filter auditdomain.Filter
	fs.StringVar(&filter.WorkspaceID, "workspace", "", "workspace id")
	fs.StringVar(&filter.UserID, "user", "", "user id")
	fs.StringVar(&filter.Action, "action", "", "action, e.g. delete")
	fs.StringVar(&filter.Resource, "resource", "", "resource, e.g. user")
	from := fs.String("from", "", "start time (RFC 3339)")
	to := fs.String("to", "", "end time (RFC 3339)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	var err error
	if filter.From, err = parseTime("from", *from); err != nil {
		return err
	}
	if filter.To, err = parseTime("to", *to); err != nil {
		return err
	}
	page, err := c.app.AuditLogs.List(ctx, filter, *params)
	if err != nil {
		return err
	}
	return c.printJSON(page)
}

func parseTime(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("audit: --%s: %w", name, err)
	}
	return t, nil
}

func runIncidents(ctx context.Context, c *cli, args []string) error {
	act, rest := action(args)
	fs := c.subFlags("incidents " + act)
	switch act {
	case "list":
		params := listFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		page, err := c.app.Incidents.List(ctx, *params)
		if err != nil {
			return err
		}
		return c.printJSON(page)
	case "get":
		id, err := oneID(fs, rest)
		if err != nil {
			return err
		}
		inc, err := c.app.Incidents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return c.printJSON(inc)
	}
	return unknownAction("incidents", act)
}

func runStats(ctx context.Context, c *cli, _ []string) error {
	o, err := c.app.Statistics.Overview(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(o)
}

// runLocale prints the locale sent with requests, or stores a new preference when given one.
func runLocale(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, c.app.Locale.Resolve(ctx))
		return nil
	}
	tag, err := c.app.Locale.SetPreference(ctx, args[0])
	if err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	fmt.Fprintf(c.out, "Locale set to %s.\n", tag)
	return nil
}
