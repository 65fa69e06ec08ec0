package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultHostsFile — файл со списком хостов по умолчанию.
const DefaultHostsFile = ".hosts.json"

// ReadHosts читает JSON массив адресов хостов.
//
// Порядок сохраняется, повторы удаляются, пустые строки и пустой список
// считаются ошибкой конфигурации.
func ReadHosts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigurationMissingError{
				What: "host list",
				Path: path,
				Hint: "specify hosts to deploy to in " + path + " first",
				Err:  err,
			}
		}
		return nil, fmt.Errorf("read host list: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: expected a JSON array of host strings: %v", ErrInvalidConfig, path, err)
	}

	hosts := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("%w: %s: host #%d is empty", ErrInvalidConfig, path, i)
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		hosts = append(hosts, h)
	}

	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: %s: host list is empty", ErrInvalidConfig, path)
	}

	return hosts, nil
}
