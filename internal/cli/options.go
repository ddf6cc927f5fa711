package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/phocus/pkg/domain"
)

// Store backends accepted by Options.Store.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Options contains the configuration shared by every command.
type Options struct {
	Source    string
	LogLevel  string
	Store     string
	Profile   string
	StateDir  string
	RedisAddr string
	RedisDB   int
}

// ParseFocusPath turns "root/project=big-arg/editor" into markers, outermost
// first. Segments are separated by '/'; '=' attaches an argument. An empty
// segment stands for an unmarked element.
func ParseFocusPath(path string) ([]domain.Marker, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	segments := strings.Split(path, "/")
	markers := make([]domain.Marker, 0, len(segments))
	for _, seg := range segments {
		name, arg, hasArg := strings.Cut(seg, "=")
		name = strings.TrimSpace(name)
		if name == "" && hasArg {
			return nil, fmt.Errorf("invalid segment %q: argument without context", seg)
		}
		markers = append(markers, domain.Marker{Context: name, Argument: arg, HasArgument: hasArg})
	}
	return markers, nil
}
