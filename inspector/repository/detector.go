package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Project represents information about a detected project
type Project struct {
	RootPath string // Absolute path to the project root directory
	Type     string // Type of project (maven, gradle, go, git)
	Name     string // Name of the project (extracted from build files)
}

// Detector identifies the project a class location belongs to
type Detector struct {
	markers []string
}

// NewDetector creates a new project detector instance
func NewDetector() *Detector {
	return &Detector{
		markers: []string{
			"pom.xml",             // Maven projects
			"build.gradle",        // Gradle projects
			"build.gradle.kts",    // Gradle Kotlin DSL projects
			"settings.gradle",     // Gradle multi projects
			"settings.gradle.kts", // Gradle multi projects
			"go.mod",              // Go projects bundling jars
			".git",                // Generic VCS marker
		},
	}
}

// DetectProject identifies the project root for a local class location, i.e. target/classes or lib/app.jar
func (d *Detector) DetectProject(location string) (*Project, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}
	ret := &Project{Type: "unknown", RootPath: startDir, Name: strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))}
	rootPath, marker := d.findProjectRoot(startDir)
	if rootPath == "" {
		return ret, nil
	}
	ret.RootPath = rootPath
	ret.Type = determineProjectType(marker)
	if name := extractProjectName(rootPath, marker); name != "" {
		ret.Name = name
	}
	return ret, nil
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, marker
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

func extractProjectName(rootPath, marker string) string {
	switch marker {
	case "pom.xml":
		return extractMavenProjectName(filepath.Join(rootPath, marker))
	case "build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts":
		return extractGradleProjectName(rootPath)
	case "go.mod":
		return extractGoModuleName(filepath.Join(rootPath, marker))
	case ".git":
		return extractGitProjectName(rootPath)
	}
	return filepath.Base(rootPath)
}

func extractMavenProjectName(pomPath string) string {
	data, err := os.ReadFile(pomPath)
	if err != nil {
		return ""
	}
	// skip parent artifactId
	content := regexp.MustCompile(`(?s)<parent>.*?</parent>`).ReplaceAll(data, nil)
	matches := regexp.MustCompile(`<artifactId>([^<]+)</artifactId>`).FindSubmatch(content)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(string(matches[1]))
}

func extractGradleProjectName(rootPath string) string {
	nameRegex := regexp.MustCompile(`(?:rootProject|project)\.name\s*=\s*['"]([^'"]+)['"]`)
	for _, candidate := range []string{"settings.gradle", "settings.gradle.kts", "build.gradle", "build.gradle.kts"} {
		data, err := os.ReadFile(filepath.Join(rootPath, candidate))
		if err != nil {
			continue
		}
		if matches := nameRegex.FindSubmatch(data); len(matches) >= 2 {
			return string(matches[1])
		}
	}
	return filepath.Base(rootPath)
}

func extractGoModuleName(goModPath string) string {
	fs := afs.New()
	if content, _ := fs.DownloadWithURL(context.Background(), goModPath); len(content) > 0 {
		if mod, _ := modfile.ParseLax(goModPath, content, nil); mod != nil && mod.Module != nil {
			return mod.Module.Mod.Path
		}
	}
	return filepath.Base(filepath.Dir(goModPath))
}

func extractGitProjectName(gitRoot string) string {
	file, err := os.Open(filepath.Join(gitRoot, ".git", "config"))
	if err != nil {
		return filepath.Base(gitRoot)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			origin := strings.TrimSuffix(strings.TrimPrefix(line, "url = "), ".git")
			parts := strings.Split(origin, "/")
			return parts[len(parts)-1]
		}
	}
	return filepath.Base(gitRoot)
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "pom.xml":
		return "maven"
	case "build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts":
		return "gradle"
	case "go.mod":
		return "go"
	case ".git":
		return "git"
	}
	return "unknown"
}
