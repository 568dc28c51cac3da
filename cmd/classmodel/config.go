package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/classmodel/inspector/info"
)

const envPrefix = "CLASSMODEL_"

type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	*l = append(*l, splitList(value)...)
	return nil
}

// loadConfig resolves configuration: defaults, config file, CLASSMODEL_* environment, then explicitly set flags
func loadConfig(ctx context.Context, args []string, getenv func(string) string) (*info.Config, error) {
	flags := flag.NewFlagSet("classmodel", flag.ContinueOnError)
	configURL := flags.String("config", "", "YAML run configuration URL")
	name := flags.String("name", "", "model name, defaults to the detected project name")
	output := flags.String("out", "", "model output URL")
	var sources, classpath, include, exclude listFlag
	flags.Var(&sources, "src", "primary class location: directory, class file or archive (repeatable, comma separated)")
	flags.Var(&classpath, "cp", "classpath location (repeatable, comma separated)")
	flags.Var(&include, "include", "include class name pattern, i.e. com.acme.** (repeatable)")
	flags.Var(&exclude, "exclude", "exclude class name pattern (repeatable)")
	members := flags.Bool("members", true, "include properties and operations")
	instructions := flags.Bool("instructions", false, "include instruction operand references")
	dependenciesOnly := flags.Bool("deps-only", false, "emit only the dependency surface of sources")
	update := flags.Bool("update", false, "merge into the existing output model")
	comment := flags.Bool("comment", true, "add generator comment")
	platform := flags.Bool("platform-only", false, "accept platform API namespaces only")
	concurrency := flags.Int("concurrency", 0, "number of locations decoded concurrently")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if *configURL == "" {
		*configURL = getenv(envPrefix + "CONFIG")
	}
	config := info.DefaultConfig()
	if *configURL != "" {
		var err error
		if config, err = info.LoadConfig(ctx, *configURL); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(config, getenv); err != nil {
		return nil, err
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			config.Name = *name
		case "out":
			config.Output = *output
		case "src":
			config.Sources = sources
		case "cp":
			config.Classpath = classpath
		case "include":
			config.Include = include
		case "exclude":
			config.Exclude = exclude
		case "members":
			config.IncludeMembers = *members
		case "instructions":
			config.IncludeInstructionReferences = *instructions
		case "deps-only":
			config.DependenciesOnly = *dependenciesOnly
		case "update":
			config.UpdateExistingModel = *update
		case "comment":
			config.IncludeGeneratorComment = *comment
		case "platform-only":
			config.PlatformOnly = *platform
		case "concurrency":
			config.Concurrency = *concurrency
		}
	})
	if rest := flags.Args(); len(rest) > 0 {
		config.Sources = append(config.Sources, rest...)
	}
	return config, nil
}

func applyEnv(config *info.Config, getenv func(string) string) error {
	text := func(key string, target *string) {
		if value := strings.TrimSpace(getenv(envPrefix + key)); value != "" {
			*target = value
		}
	}
	list := func(key string, target *[]string) {
		if value := strings.TrimSpace(getenv(envPrefix + key)); value != "" {
			*target = splitList(value)
		}
	}
	boolean := func(key string, target *bool) error {
		value := strings.TrimSpace(getenv(envPrefix + key))
		if value == "" {
			return nil
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*target = parsed
		return nil
	}
	text("NAME", &config.Name)
	text("OUTPUT", &config.Output)
	list("SOURCES", &config.Sources)
	list("CLASSPATH", &config.Classpath)
	list("INCLUDE", &config.Include)
	list("EXCLUDE", &config.Exclude)
	for key, target := range map[string]*bool{
		"INCLUDE_MEMBERS":                &config.IncludeMembers,
		"INCLUDE_INSTRUCTION_REFERENCES": &config.IncludeInstructionReferences,
		"DEPENDENCIES_ONLY":              &config.DependenciesOnly,
		"UPDATE_EXISTING_MODEL":          &config.UpdateExistingModel,
		"INCLUDE_GENERATOR_COMMENT":      &config.IncludeGeneratorComment,
		"PLATFORM_ONLY":                  &config.PlatformOnly,
	} {
		if err := boolean(key, target); err != nil {
			return err
		}
	}
	if value := strings.TrimSpace(getenv(envPrefix + "CONCURRENCY")); value != "" {
		concurrency, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %sCONCURRENCY: %w", envPrefix, err)
		}
		config.Concurrency = concurrency
	}
	return nil
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
