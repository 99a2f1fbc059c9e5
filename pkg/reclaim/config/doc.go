/*
Package config loads registry settings from YAML or JSON and turns them into
reclaim options.

# Basic Usage

	settings, err := config.FromFile("reclaim.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	opts, store, err := settings.Options(os.Stderr)
	if err != nil {
	    log.Fatal(err)
	}
	if store != nil {
	    defer store.Close()
	}

	r := reclaim.New(opts...)

# File Format

	log_level: debug      # debug, info, warn, error (default info)
	log_format: json      # text or json (default text)
	retain_failed: false  # keep entries whose constructor failed
	metrics: true         # record OpenTelemetry metrics
	tracing: true         # emit an OpenTelemetry span per shutdown
	reports:
	  driver: sqlite      # none, memory, or sqlite (default none)
	  path: reports.db    # required for sqlite

Unknown keys are rejected. Missing keys keep their defaults.
*/
package config
