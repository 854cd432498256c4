package launcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Options are the values forwarded to the entrypoint. An empty field means
// the flag was not supplied.
type Options struct {
	Password string
	Filename string
	Config   string
}

// Host is everything Plan reads from the outside world.
type Host struct {
	Fs      afero.Fs
	WorkDir string
	Environ []string
}

// CurrentHost describes the running process: real filesystem, current
// directory and environment.
func CurrentHost() (Host, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Host{}, err
	}
	return Host{
		Fs:      afero.NewOsFs(),
		WorkDir: wd,
		Environ: os.Environ(),
	}, nil
}

// Getenv returns the first value of key in h.Environ.
func (h Host) Getenv(key string) string {
	prefix := key + "="
	for _, kv := range h.Environ {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}

var (
	strategySuffixes = []string{".yml", ".py"}
	configSuffixes   = []string{".yml"}
)

// Plan checks the preconditions and options in a fixed order (entrypoint,
// environment, filename, config) and returns the invocation to run. The first
// failed check is returned as an *Error; nothing else is attempted after it.
func Plan(cfg Config, host Host, opts Options) (*Invocation, error) {
	if !entrypointExists(host, cfg.Entrypoint) {
		return nil, environmentError("Error: %s command not found. Make sure you are in the Hummingbot root directory", cfg.Entrypoint)
	}

	if cfg.ExpectedEnv != "" && host.Getenv(cfg.EnvVar) != cfg.ExpectedEnv {
		return nil, environmentError("Error: '%s' conda environment is not activated. Please activate it and try again.", cfg.ExpectedEnv)
	}

	inv := &Invocation{
		Entrypoint: cfg.Entrypoint,
		Dir:        host.WorkDir,
	}

	if opts.Password != "" {
		inv.Args = append(inv.Args, PasswordFlag, opts.Password)
	}

	if opts.Filename != "" {
		if !hasAnySuffix(opts.Filename, strategySuffixes) {
			return nil, &Error{
				Kind:    KindFilename,
				Code:    ExitBadFilename,
				Message: "Error: Invalid strategy or script file. Please provide a .yml or .py file.",
			}
		}
		inv.Args = append(inv.Args, "-f", opts.Filename)
	}

	if opts.Config != "" {
		if !hasAnySuffix(opts.Config, configSuffixes) {
			return nil, &Error{
				Kind:    KindConfig,
				Code:    ExitBadConfig,
				Message: "Error: Config file must be a .yml file.",
			}
		}
		inv.Args = append(inv.Args, "-c", opts.Config)
	}

	inv.Overrides = childOverrides(cfg, host)
	inv.Env = mergeEnv(host.Environ, inv.Overrides)
	return inv, nil
}

func entrypointExists(host Host, entrypoint string) bool {
	if host.Fs == nil {
		return false
	}
	info, err := host.Fs.Stat(resolve(host.WorkDir, entrypoint))
	return err == nil && !info.IsDir()
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// childOverrides puts BinDir in front of PATH and points the module path at
// the working directory.
func childOverrides(cfg Config, host Host) []EnvVar {
	var out []EnvVar
	if cfg.BinDir != "" {
		bin := resolve(host.WorkDir, cfg.BinDir)
		path := bin
		if old := host.Getenv("PATH"); old != "" {
			path = bin + string(os.PathListSeparator) + old
		}
		out = append(out, EnvVar{Name: "PATH", Value: path})
	}
	if cfg.ModulePathVar != "" {
		out = append(out, EnvVar{Name: cfg.ModulePathVar, Value: host.WorkDir})
	}
	return out
}

func mergeEnv(environ []string, overrides []EnvVar) []string {
	replaced := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		replaced[o.Name] = true
	}

	env := make([]string, 0, len(environ)+len(overrides))
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if replaced[name] {
			continue
		}
		env = append(env, kv)
	}
	for _, o := range overrides {
		env = append(env, o.Name+"="+o.Value)
	}
	return env
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}
