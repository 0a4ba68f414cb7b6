/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads towerd's process configuration from file, environment,
// and flag layers via viper, and validates the result into a plain Config.
package config

import (
	"strings"

	spfvpr "github.com/spf13/viper"

	libduration "github/sabouaram/towerd/duration"
	liblog "github/sabouaram/towerd/logger"
)

// Config is towerd's fully-resolved process configuration. Every field has a
// zero-value-safe default applied by Load before validation.
type Config struct {
	// Role selects server or client mode ("server" / "client").
	Role string

	BindAddr    string
	ConnectAddr string

	PeerCount      int
	ConnectTimeout libduration.Duration

	WorldL int32
	WorldW int32

	LogLevel liblog.Level

	// MetricsAddr, if non-empty, serves /metrics on this address.
	MetricsAddr string
}

const (
	defaultBindAddr       = "0.0.0.0:9302"
	defaultPeerCount      = 64
	defaultConnectTimeout = "5s"
	defaultWorldL         = int32(2000)
	defaultWorldW         = int32(2000)
)

// New returns a *spfvpr.Viper pre-bound with towerd's defaults, env prefix,
// and config file search path. Callers may still call SetConfigFile,
// BindPFlag, etc. on it before calling Load.
func New() *spfvpr.Viper {
	v := spfvpr.New()
	v.SetEnvPrefix("TOWERD")
	v.AutomaticEnv()
	v.SetConfigName("towerd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/towerd")

	v.SetDefault("role", "server")
	v.SetDefault("bind_addr", defaultBindAddr)
	v.SetDefault("connect_addr", "")
	v.SetDefault("peer_count", defaultPeerCount)
	v.SetDefault("connect_timeout", defaultConnectTimeout)
	v.SetDefault("world_l", defaultWorldL)
	v.SetDefault("world_w", defaultWorldW)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")
	return v
}

// Load reads whatever config file is present (a missing file is not an
// error; a malformed one is) and unmarshals v into a validated Config.
func Load(v *spfvpr.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(spfvpr.ConfigFileNotFoundError); !notFound {
			return Config{}, CodeConfigParse.Error(err)
		}
	}

	timeout, err := libduration.Parse(v.GetString("connect_timeout"))
	if err != nil {
		return Config{}, CodeConfigParse.Error(err)
	}

	c := Config{
		Role:           strings.ToLower(v.GetString("role")),
		BindAddr:       v.GetString("bind_addr"),
		ConnectAddr:    v.GetString("connect_addr"),
		PeerCount:      v.GetInt("peer_count"),
		ConnectTimeout: timeout,
		WorldL:         int32(v.GetInt("world_l")),
		WorldW:         int32(v.GetInt("world_w")),
		LogLevel:       parseLevel(v.GetString("log_level")),
		MetricsAddr:    v.GetString("metrics_addr"),
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Role {
	case "server":
		if c.BindAddr == "" {
			return CodeConfigInvalid.Error()
		}
	case "client":
		if c.ConnectAddr == "" {
			return CodeConfigInvalid.Error()
		}
	default:
		return CodeConfigInvalid.Error()
	}
	if c.PeerCount <= 0 {
		return CodeConfigInvalid.Error()
	}
	return nil
}

func parseLevel(s string) liblog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return liblog.DebugLevel
	case "warn", "warning":
		return liblog.WarnLevel
	case "error":
		return liblog.ErrorLevel
	default:
		return liblog.InfoLevel
	}
}
