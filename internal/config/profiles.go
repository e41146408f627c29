package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Profile holds the connection settings for one remote store. The
// Provider decides which backend handles it.
type Profile struct {
	Name      string
	Provider  string // "s3" or "azure"
	AccessKey string // S3 access key / Azure account name
	SecretKey string // S3 secret key / Azure account key
	Endpoint  string // Host, empty for the provider default
	Region    string
	Bucket    string // Bucket or container name
	UseHTTPS  bool
}

// EndpointURL returns the scheme-qualified endpoint, empty when no
// custom endpoint is configured.
func (p *Profile) EndpointURL() string {
	if p.Endpoint == "" {
		return ""
	}
	scheme := "https"
	if !p.UseHTTPS {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s", scheme, p.Endpoint)
}

// Validate checks the fields every backend needs.
func (p *Profile) Validate() error {
	if p.Provider != "s3" && p.Provider != "azure" {
		return fmt.Errorf("profile %s: provider must be s3 or azure", p.Name)
	}
	if p.AccessKey == "" || p.SecretKey == "" {
		return fmt.Errorf("profile %s: access_key and secret_key are required", p.Name)
	}
	if p.Bucket == "" {
		return fmt.Errorf("profile %s: bucket is required", p.Name)
	}
	return nil
}

// LoadProfiles reads remote profiles from an s3cfg-style INI file, one
// section per profile. A missing file yields an empty map.
func LoadProfiles(path string) (map[string]*Profile, error) {
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	profiles := make(map[string]*Profile)
	for _, section := range cfg.Sections() {
		name := section.Name()
		if name == ini.DefaultSection {
			continue
		}
		profiles[name] = &Profile{
			Name:      name,
			Provider:  strings.ToLower(section.Key("provider").MustString("s3")),
			AccessKey: section.Key("access_key").String(),
			SecretKey: section.Key("secret_key").String(),
			Endpoint:  section.Key("host_base").String(),
			Region:    section.Key("bucket_location").MustString("us-east-1"),
			Bucket:    section.Key("bucket").String(),
			UseHTTPS:  section.Key("use_https").MustBool(true),
		}
	}
	return profiles, nil
}

// SaveProfiles writes the profiles back in the same INI layout.
func SaveProfiles(path string, profiles map[string]*Profile) error {
	cfg := ini.Empty()

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := profiles[name]
		section := cfg.Section(name)
		section.Key("provider").SetValue(p.Provider)
		section.Key("access_key").SetValue(p.AccessKey)
		section.Key("secret_key").SetValue(p.SecretKey)
		if p.Endpoint != "" {
			section.Key("host_base").SetValue(p.Endpoint)
		}
		section.Key("bucket_location").SetValue(p.Region)
		section.Key("bucket").SetValue(p.Bucket)
		if p.UseHTTPS {
			section.Key("use_https").SetValue("True")
		} else {
			section.Key("use_https").SetValue("False")
		}
	}

	return cfg.SaveTo(path)
}
