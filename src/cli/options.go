// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// optionHandler attempts to interpret the option starting at args[i].
// It returns the count of arguments consumed (at least 1), or zero when
// the option is unrecognized or malformed.
type optionHandler func(cfg *Config, args []string, i int) int

// optionChain is the ordered list of option-handling strategies, most
// specialized first. The driver offers each position to every handler in
// turn; the base handler at the end has no further delegate.
var optionChain = []optionHandler{
	handleAliasOptions,
	handleTrustStoreOptions,
	handleKeyStoreOptions,
	handleBaseOptions,
}

// ParseArgs resolves the full argument sequence into cfg. It walks the
// argument list one option at a time, advancing the cursor by however
// many tokens the matching handler consumed, and fails the moment no
// handler recognizes the current token.
func ParseArgs(cfg *Config, args []string) error {
	i := 0
	for i < len(args) {
		consumed := 0
		for _, handle := range optionChain {
			if consumed = handle(cfg, args, i); consumed > 0 {
				break
			}
		}
		if consumed == 0 {
			return fmt.Errorf("%w: unrecognized or malformed option %q", ErrConfigParse, args[i])
		}
		i += consumed
	}
	return nil
}

// canonical normalizes an option token for matching. Matching is
// case-insensitive; surrounding whitespace is ignored.
func canonical(arg string) string {
	return strings.ToUpper(strings.TrimSpace(arg))
}

// value returns the option's value argument, or false when the flag sits
// at the end of the argument list with its value missing.
func value(args []string, i int) (string, bool) {
	if i+1 >= len(args) {
		return "", false
	}
	return args[i+1], true
}

// handleAliasOptions deals with -alias.
func handleAliasOptions(cfg *Config, args []string, i int) int {
	if canonical(args[i]) != "-ALIAS" {
		return 0
	}
	v, ok := value(args, i)
	if !ok {
		return 0
	}
	cfg.ForcedAlias = v
	cfg.AliasSet = true
	return 2
}

// handleTrustStoreOptions deals with -ts and -tspass.
func handleTrustStoreOptions(cfg *Config, args []string, i int) int {
	switch canonical(args[i]) {
	case "-TS":
		v, ok := value(args, i)
		if !ok {
			return 0
		}
		cfg.TrustStorePath = v
		return 2
	case "-TSPASS":
		v, ok := value(args, i)
		if !ok {
			return 0
		}
		cfg.TrustStorePassword = v
		return 2
	}
	return 0
}

// handleKeyStoreOptions deals with -ks, -kspass, and the -list
// inspection mode.
func handleKeyStoreOptions(cfg *Config, args []string, i int) int {
	switch canonical(args[i]) {
	case "-KS":
		v, ok := value(args, i)
		if !ok {
			return 0
		}
		cfg.KeyStorePath = v
		return 2
	case "-KSPASS":
		v, ok := value(args, i)
		if !ok {
			return 0
		}
		cfg.KeyStorePassword = v
		return 2
	case "-LIST":
		cfg.ListOnly = true
		return 1
	}
	return 0
}

// handleBaseOptions deals with -host, -port, and -enc. A port value that
// does not parse as an integer counts as unrecognized, the same as an
// unknown flag.
func handleBaseOptions(cfg *Config, args []string, i int) int {
	switch canonical(args[i]) {
	case "-HOST":
		v, ok := value(args, i)
		if !ok {
			return 0
		}
		cfg.Host = v
		return 2
	case "-PORT":
		v, ok := value(args, i)
		if !ok {
			return 0
		}
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		cfg.Port = port
		return 2
	case "-ENC":
		v, ok := value(args, i)
		if !ok {
			return 0
		}
		cfg.Encoding = v
		return 2
	}
	return 0
}
