// FILE: tek/config/doc.go

// Package config provides layered configuration for command line programs.
//
// A Registry holds named sections. Each section (a Configuration) merges its
// values from up to five layers, lowest to highest precedence:
//
//  1. Defaults declared with RegisterConfig
//  2. Config files registered under an alias (INI, TOML, YAML or JSON)
//  3. Environment variables, when an env prefix is configured
//  4. Command line flags synthesized by ParseCLI
//  5. Programmatic overrides, mainly for tests
//
// Defaults are typed options. Plain Go values are wrapped by type inference,
// explicit constructors add help text, CLI shorthands and parsing rules:
//
//	config.RegisterFiles("myapp", "/etc/myapp.conf", "~/.myapp.conf")
//	err := config.RegisterConfig("myapp", "net", map[string]any{
//	    "port":    8080,
//	    "verbose": config.Bool(false, config.Help("log more"), config.Short("v")),
//	    "limit":   config.FileSize("5M"),
//	})
//
//	rest, err := config.ParseCLI(os.Args[1:])
//
//	port, err := config.Get("net", "port") // int64(8080) unless overridden
//
// Clients may be created before their section is registered and connect once
// it is. Lazy values resolve on first use and keep the result:
//
//	var limit = config.LazyOf[int64]("net.limit")
//
// Sections can also be decoded into structs with `config` tags via Scan.
// A commented template of all sections is written by WriteConfig.
package config
