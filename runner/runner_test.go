package runner_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/classmodel/inspector/classfile/classfiletest"
	"github.com/viant/classmodel/inspector/graph"
	"github.com/viant/classmodel/inspector/info"
	"github.com/viant/classmodel/inspector/java"
	"github.com/viant/classmodel/merger"
	"github.com/viant/classmodel/runner"
	"github.com/viant/classmodel/store"
)

func writeDir(t *testing.T, builders ...*classfiletest.Builder) string {
	dir := t.TempDir()
	require.NoError(t, classfiletest.WriteDir(dir, builders...))
	return dir
}

func TestRunner_Run(t *testing.T) {
	pair := classfiletest.MutualPair()
	output := filepath.Join(t.TempDir(), "model.yaml")
	config := info.DefaultConfig()
	config.Name = "pair"
	config.Sources = []string{writeDir(t, pair...)}
	config.Output = output

	progress := make(chan runner.Progress, 64)
	result, err := runner.New(config, runner.WithProgress(progress)).Run(context.Background())
	require.NoError(t, err)
	close(progress)
	assert.Equal(t, runner.StatusCompleted, result.Status)
	assert.True(t, result.Saved)
	assert.Equal(t, 4, result.Primary)

	model := result.Model
	require.NotNil(t, model)
	assert.Equal(t, "pair", model.Name)
	assert.Equal(t, "Generated by classmodel from 4 class records", model.Comment)
	for _, name := range []string{"A", "A.AA", "B", "B.BB"} {
		aType := model.Lookup(name)
		require.NotNil(t, aType, name)
		assert.False(t, aType.IsInferred(), name)
	}
	assert.Equal(t, "B.BB", model.Lookup("A").Property("b").Type)
	assert.Equal(t, "A.AA", model.Lookup("B").Property("a").Type)
	assert.True(t, model.Lookup("java.lang.Object").IsInferred())

	var events []runner.Progress
	for event := range progress {
		assert.Equal(t, runner.UnitsPerPhase, event.Total)
		events = append(events, event)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, runner.Progress{Phase: runner.PhaseIngest, Completed: 0, Total: runner.UnitsPerPhase}, events[0])
	assert.Equal(t, runner.Progress{Phase: runner.PhaseSave, Completed: runner.UnitsPerPhase, Total: runner.UnitsPerPhase}, events[len(events)-1])

	stored, err := store.Load(context.Background(), output)
	require.NoError(t, err)
	require.NotNil(t, stored)
	fingerprint, err := stored.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, result.Fingerprint, fingerprint)
}

func TestRunner_Run_DependenciesOnly(t *testing.T) {
	pair := classfiletest.MutualPair()
	config := info.DefaultConfig()
	config.Name = "deps"
	config.DependenciesOnly = true
	config.Sources = []string{writeDir(t, pair[0], pair[1])}
	config.Classpath = []string{writeDir(t, pair[2], pair[3], classfiletest.New("C"))}

	result, err := runner.New(config).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Classpath)
	model := result.Model
	assert.Nil(t, model.Lookup("C"))

	a := model.Lookup("A")
	require.NotNil(t, a, spew.Sdump(model.Types()))
	assert.False(t, a.IsInferred())
	assert.NotNil(t, a.Property("b"))
	for _, name := range []string{"B", "B.BB"} {
		aType := model.Lookup(name)
		require.NotNil(t, aType, name)
		assert.True(t, aType.IsInferred(), name)
		assert.False(t, aType.HasMembers(), name)
	}
}

func TestRunner_Run_UpdateExistingModel(t *testing.T) {
	output := filepath.Join(t.TempDir(), "model.yaml")
	run := func(builder *classfiletest.Builder) *runner.Result {
		config := info.DefaultConfig()
		config.Name = "update"
		config.UpdateExistingModel = true
		config.Output = output
		config.Sources = []string{writeDir(t, builder)}
		result, err := runner.New(config).Run(context.Background())
		require.NoError(t, err)
		return result
	}
	first := run(classfiletest.New("com/acme/Foo").Access(classfiletest.AccPrivate | classfiletest.AccAbstract))
	assert.True(t, first.Saved)
	foo := first.Model.Lookup("com.acme.Foo")
	assert.Equal(t, graph.VisibilityPrivate, foo.Visibility)
	assert.True(t, foo.IsAbstract)

	second := run(classfiletest.New("com/acme/Foo").Access(classfiletest.AccSuper))
	assert.True(t, second.Saved)
	foo = second.Model.Lookup("com.acme.Foo")
	assert.Equal(t, graph.VisibilityPackage, foo.Visibility)
	assert.False(t, foo.IsAbstract)

	third := run(classfiletest.New("com/acme/Foo").Access(classfiletest.AccSuper))
	assert.False(t, third.Saved)
	assert.Equal(t, second.Fingerprint, third.Fingerprint)
}

func TestRunner_Run_MergeConflict(t *testing.T) {
	output := filepath.Join(t.TempDir(), "model.yaml")
	config := info.DefaultConfig()
	config.Name = "conflict"
	config.UpdateExistingModel = true
	config.Output = output
	config.Sources = []string{writeDir(t, classfiletest.New("Foo").Method(classfiletest.AccPublic|classfiletest.AccStatic, "bar", "()V"))}
	_, err := runner.New(config).Run(context.Background())
	require.NoError(t, err)

	config.Sources = []string{writeDir(t, classfiletest.New("Foo").Method(classfiletest.AccPublic, "bar", "()V"))}
	result, err := runner.New(config).Run(context.Background())
	assert.Equal(t, runner.StatusFailed, result.Status)
	var conflict *merger.ConflictError
	require.True(t, errors.As(err, &conflict), spew.Sdump(err))
	assert.Equal(t, "conflict::Foo#bar()", conflict.Base)
	assert.Equal(t, "conflict::Foo#bar()", conflict.Incoming)
	assert.Nil(t, result.Model)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	config := info.DefaultConfig()
	config.Sources = []string{writeDir(t, classfiletest.MutualPair()...)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := runner.New(config).Run(ctx)
	assert.Equal(t, runner.StatusCancelled, result.Status)
	assert.ErrorIs(t, err, runner.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result.Model)
}

func TestRunner_Run_NoInput(t *testing.T) {
	result, err := runner.New(info.DefaultConfig()).Run(context.Background())
	assert.Equal(t, runner.StatusFailed, result.Status)
	assert.ErrorIs(t, err, java.ErrNoInput)
}

func TestRunner_Run_DefaultName(t *testing.T) {
	config := info.DefaultConfig()
	config.IncludeGeneratorComment = false
	config.Sources = []string{writeDir(t, classfiletest.New("A"))}
	result, err := runner.New(config, runner.WithFilter(info.PlatformFilter())).Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Model.Name)
	assert.Empty(t, result.Model.Comment)
	assert.Nil(t, result.Model.Lookup("A"))
}
