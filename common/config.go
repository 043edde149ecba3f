// Package common holds the process-wide, read-only Config record and
// the handful of environment-variable overrides used to populate it at
// startup, following the teacher's convention of a package-level
// Config singleton consulted everywhere else.
package common

import (
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Border holds the per-tiled-client border settings.
type Border struct {
	Width        uint16
	ColorActive  uint32
	ColorNormal  uint32
}

// ConfigRecord is the immutable set of recognized options described in
// the spec's Config table, plus the ambient LogLevel knob.
type ConfigRecord struct {
	UselessGap uint32
	Border     Border

	// Tags is the ordered list of normal-desktop aliases. Its length is
	// the number of normal desktops (the sticky tag is always appended
	// beyond this list, never counted in it).
	Tags []string

	LogLevel string
}

// Config is the process-wide singleton, assigned once by NewConfig's
// caller before the event loop starts and never mutated afterward.
var Config = Default()

// Default returns the hardcoded baseline configuration.
func Default() ConfigRecord {
	return ConfigRecord{
		UselessGap: 4,
		Border: Border{
			Width:       2,
			ColorActive: 0x4C7899,
			ColorNormal: 0x222222,
		},
		Tags:     []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		LogLevel: "info",
	}
}

// NewConfig returns Default() overridden by any recognized environment
// variables. It is the sole place env vars are consulted; no
// third-party configuration framework is pulled in for a handful of
// scalar settings (see DESIGN.md).
func NewConfig() ConfigRecord {
	c := Default()

	if v := os.Getenv("SAPPHIRE_USELESS_GAP"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.UselessGap = uint32(n)
		} else {
			log.WithFields(log.Fields{"value": v, "err": err}).Warn("common.config.useless_gap.invalid")
		}
	}

	if v := os.Getenv("SAPPHIRE_BORDER_WIDTH"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			c.Border.Width = uint16(n)
		} else {
			log.WithFields(log.Fields{"value": v, "err": err}).Warn("common.config.border_width.invalid")
		}
	}

	if v := os.Getenv("SAPPHIRE_BORDER_ACTIVE"); v != "" {
		if n, err := strconv.ParseUint(strings.TrimPrefix(v, "0x"), 16, 32); err == nil {
			c.Border.ColorActive = uint32(n)
		} else {
			log.WithFields(log.Fields{"value": v, "err": err}).Warn("common.config.border_active.invalid")
		}
	}

	if v := os.Getenv("SAPPHIRE_BORDER_NORMAL"); v != "" {
		if n, err := strconv.ParseUint(strings.TrimPrefix(v, "0x"), 16, 32); err == nil {
			c.Border.ColorNormal = uint32(n)
		} else {
			log.WithFields(log.Fields{"value": v, "err": err}).Warn("common.config.border_normal.invalid")
		}
	}

	if v := os.Getenv("SAPPHIRE_TAGS"); v != "" {
		tags := strings.Split(v, ",")
		for i := range tags {
			tags[i] = strings.TrimSpace(tags[i])
		}
		c.Tags = tags
	}

	if v := os.Getenv("SAPPHIRE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	log.WithFields(log.Fields{
		"useless_gap":   c.UselessGap,
		"border_width":  c.Border.Width,
		"tags":          c.Tags,
		"log_level":     c.LogLevel,
	}).Info("common.config.loaded")

	return c
}
