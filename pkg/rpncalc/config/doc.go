/*
Package config loads rule files.

# Format

A rule file lists named expressions, default variable bindings, and
free-form settings:

	rules:
	  - name: gray_release
	    expr: uid % 10 == 1 && cityid != 131
	    description: ten percent of users outside city 131
	defaults:
	  cityid: 131
	settings:
	  log_level: debug
	  metrics: true

JSON files use the same keys.

# Loading

	f, err := config.FromFile("rules.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	level := f.Settings.String("log_level", "info")

FromFile picks the decoder by extension (.yaml, .yml, .json). Loading
validates rule names and presence of expressions but does not parse them;
that happens when rules are added to an engine.
*/
package config
