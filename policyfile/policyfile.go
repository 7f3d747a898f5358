// Package policyfile loads named CORS policies from a YAML file and keeps a
// [cors.Registry] in sync with on-disk changes.
//
// The expected file shape is a "policies" map keyed by policy name:
//
//	policies:
//	  api:
//	    origins:
//	      - https://example.com
//	    methods: [PUT, DELETE]
//	    requestHeaders: [Content-Type, Authorization]
//	    exposeHeaders: [X-Request-Id]
//	    credentialed: true
//	    maxAgeInSeconds: 600
//
// Individual settings may be overridden through CORS_* environment
// variables, with "." mapped to "_" in nested keys.
package policyfile

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/policyware/cors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// An Entry is the file representation of one named policy.
// Its fields mirror those of [cors.PolicyConfig]; origin matchers are not
// expressible in a file and can only be attached programmatically.
type Entry struct {
	Origins         []string `mapstructure:"origins"`
	Methods         []string `mapstructure:"methods"`
	RequestHeaders  []string `mapstructure:"requestHeaders"`
	ExposeHeaders   []string `mapstructure:"exposeHeaders"`
	Credentialed    bool     `mapstructure:"credentialed"`
	MaxAgeInSeconds int      `mapstructure:"maxAgeInSeconds"`
}

type policyFile struct {
	Policies map[string]Entry `mapstructure:"policies"`
}

// A Loader reads a policy file and builds registries from it.
// Create one with [NewLoader].
type Loader struct {
	v    *viper.Viper
	log  *zap.Logger
	path string
}

// envPrefix is the environment-variable prefix for per-setting overrides.
const envPrefix = "CORS"

// NewLoader returns a Loader for the YAML file at path.
// Load and reload outcomes are logged on log; a nil log disables logging.
func NewLoader(path string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return &Loader{v: v, log: log, path: path}
}

// Load reads the policy file, builds a policy per entry, and returns a
// fresh [cors.Registry] containing them all. It returns a descriptive,
// non-nil error if the file cannot be read or if any entry fails policy
// validation, in which case no registry is returned.
func (l *Loader) Load() (*cors.Registry, error) {
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("policyfile: failed to read policy file %q: %w", l.path, err)
	}
	policies, err := l.build()
	if err != nil {
		return nil, err
	}
	var reg cors.Registry
	reg.SetAll(policies)
	l.log.Info("CORS policies loaded",
		zap.String("file", l.path),
		zap.Strings("policies", reg.Names()),
	)
	return &reg, nil
}

// Watch monitors the policy file for changes and atomically replaces reg's
// contents whenever a change yields a valid set of policies. A change that
// fails to read or validate is logged and skipped, leaving reg's previous
// contents in place.
//
// Watch is non-blocking; the underlying file watching runs on a background
// goroutine managed by viper.
func (l *Loader) Watch(reg *cors.Registry) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		policies, err := l.build()
		if err != nil {
			l.log.Warn("CORS policy reload skipped",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}
		reg.SetAll(policies)
		l.log.Info("CORS policies reloaded",
			zap.String("file", e.Name),
			zap.Strings("policies", reg.Names()),
		)
	})
	l.v.WatchConfig()
}

func (l *Loader) build() (map[string]*cors.Policy, error) {
	var f policyFile
	if err := l.v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("policyfile: failed to unmarshal policy file %q: %w", l.path, err)
	}
	policies := make(map[string]*cors.Policy, len(f.Policies))
	for name, e := range f.Policies {
		p, err := cors.NewPolicy(cors.PolicyConfig{
			Origins:         e.Origins,
			Methods:         e.Methods,
			RequestHeaders:  e.RequestHeaders,
			ExposeHeaders:   e.ExposeHeaders,
			Credentialed:    e.Credentialed,
			MaxAgeInSeconds: e.MaxAgeInSeconds,
		})
		if err != nil {
			return nil, fmt.Errorf("policyfile: invalid policy %q: %w", name, err)
		}
		policies[name] = p
	}
	return policies, nil
}
