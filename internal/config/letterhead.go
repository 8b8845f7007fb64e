package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Letterhead holds the fixed branding printed on every receipt.
type Letterhead struct {
	LogoURL      string `yaml:"logo_url"`
	Heading      string `yaml:"heading"`
	Title        string `yaml:"title"`
	ContactPhone string `yaml:"contact_phone"`
	GSTIN        string `yaml:"gstin"`
	ThankYou     string `yaml:"thank_you"`
	Currency     string `yaml:"currency"`
}

// DefaultLetterhead returns the branding used when no profile file is configured.
func DefaultLetterhead() Letterhead {
	return Letterhead{
		LogoURL:      "http://localhost:3000/asset/images/logo.jpg",
		Heading:      "SANGAI HONDA",
		Title:        "OFFICIAL RECEIPT",
		ContactPhone: "01169320285",
		GSTIN:        "14AACCO0030B1ZH",
		ThankYou:     "Thank you for your business!",
		Currency:     "₹",
	}
}

// LoadLetterhead reads a YAML letterhead profile. Keys missing from the file
// keep their default values. An empty path returns the defaults.
func LoadLetterhead(path string) (Letterhead, error) {
	lh := DefaultLetterhead()
	if path == "" {
		return lh, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return lh, fmt.Errorf("config: read letterhead %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &lh); err != nil {
		return lh, fmt.Errorf("config: parse letterhead %s: %w", path, err)
	}
	return lh, nil
}
