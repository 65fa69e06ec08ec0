package steps

import (
	"fmt"
	"strconv"
	"strings"
)

// Address — разобранный адрес хоста.
type Address struct {
	User string
	Host string
	Port int
}

// ParseAddress разбирает адрес в одном из форматов:
// host, user@host, host:port, user@host:port.
// defaultUser применяется, если адрес не содержит пользователя.
func ParseAddress(s, defaultUser string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty", ErrInvalidHost)
	}

	addr := Address{User: defaultUser}
	rest := s

	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		addr.User = rest[:i]
		rest = rest[i+1:]
		if addr.User == "" {
			return Address{}, fmt.Errorf("%w: %q has empty user", ErrInvalidHost, s)
		}
	}

	if i := strings.LastIndexByte(rest, ':'); i >= 0 {
		port, err := strconv.Atoi(rest[i+1:])
		if err != nil || port < 1 || port > 65535 {
			return Address{}, fmt.Errorf("%w: %q has invalid port", ErrInvalidHost, s)
		}
		addr.Port = port
		rest = rest[:i]
	}

	if rest == "" || strings.ContainsAny(rest, " \t/") {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidHost, s)
	}
	addr.Host = rest

	return addr, nil
}

// Destination возвращает user@host (или host без пользователя).
func (a Address) Destination() string {
	if a.User == "" {
		return a.Host
	}
	return a.User + "@" + a.Host
}

// sshOptions — общие опции ssh: ssh_config и порт.
func sshOptions(sshConfig string, port int) []string {
	var opts []string
	if sshConfig != "" {
		opts = append(opts, "-F", sshConfig)
	}
	if port != 0 {
		opts = append(opts, "-p", strconv.Itoa(port))
	}
	return opts
}
