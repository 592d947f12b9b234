package betaprobe

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	defaultOriginMarker = "Current revision:"

	defaultPragma = "akamai-x-cache-on, akamai-x-cache-remote-on, " +
		"akamai-x-check-cacheable, akamai-x-get-cache-key, " +
		"akamai-x-get-extracted-values, akamai-x-get-nonces, " +
		"akamai-x-get-ssl-client-session-id, akamai-x-get-true-cache-key, " +
		"akamai-x-serial-no"

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_8_5) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/32.0.1700.77 Safari/537.36"
)

// PathSpec names one URL path to probe and whether it belongs to the tested
// feature set or is a control path.
type PathSpec struct {
	Path   string `mapstructure:"path"`
	InTest bool   `mapstructure:"in_test"`
}

// Config is the complete, immutable run configuration. It is built once at
// startup (defaults, then flags, then the optional profile file) and passed
// down the pipeline; nothing in the package mutates it afterwards.
type Config struct {
	Host         string
	Addresses    []string
	OutputFile   string
	TestsPerPath int
	Timeout      time.Duration
	Delay        time.Duration
	Processes    int

	Paths          []PathSpec
	CookieVariants []map[string]string
	Headers        map[string]string
	OriginMarker   string
}

// DefaultConfig returns the built-in probe profile: the three beta paths,
// the three cookie variants (no override, route-to-new, route-to-old) and
// the CDN diagnostic header bundle.
func DefaultConfig() Config {
	return Config{
		TestsPerPath: 1,
		Timeout:      30 * time.Second,
		Processes:    32,
		Paths: []PathSpec{
			{Path: "/html/solutions/index.html", InTest: true},
			{Path: "/html/technology/index.html", InTest: true},
			{Path: "/html/industry/index.html", InTest: true},
		},
		CookieVariants: []map[string]string{
			{},
			{"beta": "new"},
			{"legacy": "old"},
		},
		Headers: map[string]string{
			"Pragma":     defaultPragma,
			"User-Agent": defaultUserAgent,
		},
		OriginMarker: defaultOriginMarker,
	}
}

// profileFile is the YAML shape of an on-disk probe profile. Every section
// is optional; absent sections keep their built-in defaults.
type profileFile struct {
	Paths        []PathSpec          `mapstructure:"paths"`
	Cookies      []map[string]string `mapstructure:"cookies"`
	OriginMarker string              `mapstructure:"origin_marker"`
	Headers      map[string]string   `mapstructure:"headers"`
}

// LoadFile overlays a YAML probe profile onto the configuration.
func (c *Config) LoadFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, "could not read probe profile")
	}

	profile := profileFile{}
	if err := v.Unmarshal(&profile); err != nil {
		return errors.Wrap(err, "could not decode probe profile")
	}

	if len(profile.Paths) > 0 {
		c.Paths = profile.Paths
	}
	if len(profile.Cookies) > 0 {
		c.CookieVariants = profile.Cookies
	}
	if profile.OriginMarker != "" {
		c.OriginMarker = profile.OriginMarker
	}
	if len(profile.Headers) > 0 {
		merged := make(map[string]string, len(c.Headers)+len(profile.Headers))
		for name, value := range c.Headers {
			merged[name] = value
		}
		for name, value := range profile.Headers {
			merged[name] = value
		}
		c.Headers = merged
	}

	return nil
}

// Validate rejects configurations the pipeline cannot run.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.OutputFile == "" {
		return errors.New("output file is required")
	}
	if c.TestsPerPath <= 0 {
		return errors.New("ntests must be positive")
	}
	if c.Processes <= 0 {
		return errors.New("processes must be positive")
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	if c.Delay < 0 {
		return errors.New("delay cannot be negative")
	}
	if len(c.Paths) == 0 {
		return errors.New("at least one path is required")
	}
	if len(c.CookieVariants) == 0 {
		return errors.New("at least one cookie variant is required")
	}
	return nil
}

// RequestCount is the closed-form length of the generated request sequence.
func (c Config) RequestCount() int {
	addresses := len(c.Addresses)
	if addresses == 0 {
		addresses = 1
	}
	return c.TestsPerPath * len(c.Paths) * len(c.CookieVariants) * addresses
}

// recognizedCookieNames collects every cookie name appearing in the
// configured variants. Cookies outside this set are noise as far as
// grouping is concerned and get dropped during canonicalization.
func (c Config) recognizedCookieNames() map[string]bool {
	names := map[string]bool{}
	for _, variant := range c.CookieVariants {
		for name := range variant {
			names[name] = true
		}
	}
	return names
}
