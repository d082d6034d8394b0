package device

import (
	"context"
	"errors"
	"net"

	"admin-console/desktop/internal/device/domain"
)

// ErrNoInterface is returned when no suitable network interface is found.
var ErrNoInterface = errors.New("device: no active non-loopback interface with an IPv4 address")

// LocalProvider reads the identity from the host's network interfaces: the first interface
// that is up, not loopback, has a hardware address and an IPv4 address.
type LocalProvider struct {
	interfaces func() ([]net.Interface, error)
	addrs      func(net.Interface) ([]net.Addr, error)
}

// NewLocalProvider returns a provider backed by the operating system's interface table.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{
		interfaces: net.Interfaces,
		addrs:      func(ifc net.Interface) ([]net.Addr, error) { return ifc.Addrs() },
	}
}

// DeviceIdentity scans the interfaces in order and returns the first usable one.
func (p *LocalProvider) DeviceIdentity(ctx context.Context) (domain.Identity, error) {
	ifaces, err := p.interfaces()
	if err != nil {
		return domain.Identity{}, err
	}
	for _, ifc := range ifaces {
		if err := ctx.Err(); err != nil {
			return domain.Identity{}, err
		}
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 || len(ifc.HardwareAddr) == 0 {
			continue
		}
		addrs, err := p.addrs(ifc)
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ip := ipv4(a); ip != nil {
				return domain.Identity{
					IP:            ip.String(),
					MAC:           ifc.HardwareAddr.String(),
					InterfaceName: ifc.Name,
				}, nil
			}
		}
	}
	return domain.Identity{}, ErrNoInterface
}

func ipv4(a net.Addr) net.IP {
	var ip net.IP
	switch v := a.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	}
	if ip == nil || ip.IsLoopback() {
		return nil
	}
	return ip.To4()
}
