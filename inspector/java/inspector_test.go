package java_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/classmodel/inspector/classfile"
	"github.com/viant/classmodel/inspector/classfile/classfiletest"
	"github.com/viant/classmodel/inspector/graph"
	"github.com/viant/classmodel/inspector/info"
	"github.com/viant/classmodel/inspector/java"
)

func names(classes []*classfile.Class) []string {
	var result []string
	for _, class := range classes {
		result = append(result, class.Name)
	}
	return result
}

func decodeAll(t *testing.T, builders ...*classfiletest.Builder) []*classfile.Class {
	var result []*classfile.Class
	for _, builder := range builders {
		class, err := classfile.Decode(builder.Bytes())
		require.NoError(t, err)
		result = append(result, class)
	}
	return result
}

func TestTypeName(t *testing.T) {
	var testCases = []struct {
		description string
		binaryName  string
		expect      string
	}{
		{description: "root package", binaryName: "A", expect: "A"},
		{description: "package", binaryName: "com.acme.Foo", expect: "com.acme.Foo"},
		{description: "nested", binaryName: "com.acme.Foo$Bar", expect: "com.acme.Foo.Bar"},
		{description: "anonymous", binaryName: "com.acme.Foo$1", expect: "com.acme.Foo.1"},
		{description: "dollar in name", binaryName: "com.acme.$Proxy", expect: "com.acme.Proxy"},
	}
	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, java.TypeName(testCase.binaryName).String(), testCase.description)
	}
}

func TestInspector_Ingest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, classfiletest.WriteDir(dir, classfiletest.MutualPair()...))
	other := t.TempDir()
	jar := filepath.Join(other, "lib.jar")
	require.NoError(t, classfiletest.WriteArchive(jar, classfiletest.New("com/acme/C"), classfiletest.New("A")))
	broken := t.TempDir()
	require.NoError(t, classfiletest.WriteDir(broken, classfiletest.New("D")))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "Bad.class"), []byte("not a class"), 0o644))

	enclosing := t.TempDir()
	require.NoError(t, classfiletest.WriteDir(enclosing,
		classfiletest.New("E"),
		classfiletest.New("E$1").Inner("E$1", "", "", 0),
		classfiletest.New("E$1Local").Inner("E$1Local", "", "Local", 0),
	))

	var testCases = []struct {
		description     string
		sources         []string
		classpath       []string
		filter          info.Filter
		expectPrimary   []string
		expectClasspath []string
		expectSkipped   int
		expectErr       error
		expectAnyErr    bool
	}{
		{
			description:   "directory source",
			sources:       []string{dir},
			expectPrimary: []string{"A", "A$AA", "B", "B$BB"},
		},
		{
			description:   "classpath promoted to primary",
			classpath:     []string{dir},
			expectPrimary: []string{"A", "A$AA", "B", "B$BB"},
		},
		{
			description:     "classpath deduplicated against primary",
			sources:         []string{dir},
			classpath:       []string{jar},
			expectPrimary:   []string{"A", "A$AA", "B", "B$BB"},
			expectClasspath: []string{"com.acme.C"},
		},
		{
			description:   "filtered",
			sources:       []string{dir},
			filter:        info.PrefixFilter{"A"},
			expectPrimary: []string{"A", "A$AA"},
		},
		{
			description:   "undecodable entry skipped",
			sources:       []string{broken},
			expectPrimary: []string{"D"},
			expectSkipped: 1,
		},
		{
			description:   "local and anonymous classes left out",
			sources:       []string{enclosing},
			expectPrimary: []string{"E"},
		},
		{
			description: "no input",
			expectErr:   java.ErrNoInput,
		},
		{
			description:  "missing location",
			sources:      []string{filepath.Join(dir, "missing")},
			expectAnyErr: true,
		},
	}

	for _, testCase := range testCases {
		inspector := java.NewInspector(graph.New("test"), info.DefaultConfig(), java.WithFilter(testCase.filter))
		input, err := inspector.Ingest(context.Background(), testCase.sources, testCase.classpath)
		if testCase.expectErr != nil {
			assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
			continue
		}
		if testCase.expectAnyErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.ElementsMatch(t, testCase.expectPrimary, names(input.Primary), testCase.description)
		assert.ElementsMatch(t, testCase.expectClasspath, names(input.Classpath), testCase.description)
		assert.Len(t, input.Skipped, testCase.expectSkipped, testCase.description)
		for _, skipped := range input.Skipped {
			var entryErr *java.EntryError
			assert.True(t, errors.As(skipped, &entryErr), testCase.description)
			assert.Contains(t, entryErr.Entry, "Bad.class", testCase.description)
		}
	}
}

func TestInspector_Ingest_Progress(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, classfiletest.WriteDir(first, classfiletest.New("A")))
	require.NoError(t, classfiletest.WriteDir(second, classfiletest.New("B")))
	var locations []string
	inspector := java.NewInspector(graph.New("test"), nil, java.WithScanListener(func(location string, completed, total int) {
		locations = append(locations, location)
		assert.Equal(t, 2, total)
		assert.Equal(t, len(locations), completed)
	}))
	input, err := inspector.Ingest(context.Background(), []string{first}, []string{second})
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, locations)
	assert.Equal(t, []string{"A"}, names(input.Primary))
	assert.Equal(t, []string{"B"}, names(input.Classpath))
}

func TestInspector_Ingest_Cancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, classfiletest.WriteDir(dir, classfiletest.MutualPair()...))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inspector := java.NewInspector(graph.New("test"), nil)
	input, err := inspector.Ingest(ctx, []string{dir}, nil)
	assert.Nil(t, input)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInspector_MutualPair(t *testing.T) {
	model := graph.New("test")
	inspector := java.NewInspector(model, nil)
	classes := decodeAll(t, classfiletest.MutualPair()...)
	types := inspector.AddAllTypes(classes)
	require.Len(t, types, 4)
	require.NoError(t, inspector.AddAllMembers(classes))

	for _, name := range []string{"A", "A.AA", "B", "B.BB"} {
		assert.NotNil(t, model.Lookup(name), name)
	}
	a, b := model.Lookup("A"), model.Lookup("B")
	assert.Equal(t, graph.VisibilityPublic, a.Visibility)
	assert.Equal(t, graph.VisibilityPackage, b.Visibility)
	require.NotNil(t, a.Property("b"))
	assert.Equal(t, "B.BB", a.Property("b").Type)
	require.NotNil(t, b.Property("a"))
	assert.Equal(t, "A.AA", b.Property("a").Type)
	assert.Equal(t, a, model.Lookup("A.AA").Owner)
	assert.Equal(t, b, model.Lookup("B.BB").Owner)
	assert.Equal(t, []string{"java.lang.Object"}, a.Generalizations)
	assert.NotNil(t, a.Operation("A()"))

	seen := map[string]bool{}
	for _, aType := range model.Types() {
		assert.False(t, seen[aType.QualifiedName], aType.QualifiedName)
		seen[aType.QualifiedName] = true
	}
}

func TestInspector_AddAllTypes(t *testing.T) {
	model := graph.New("test")
	inspector := java.NewInspector(model, nil)
	classes := decodeAll(t,
		classfiletest.New("com/acme/I").Access(classfiletest.AccPublic|classfiletest.AccInterface|classfiletest.AccAbstract).Interface("com/acme/J"),
		classfiletest.New("com/acme/C").Access(classfiletest.AccPublic|classfiletest.AccFinal).Super("com/acme/S").Interface("com/acme/I"),
		classfiletest.New("com/acme/S").Access(classfiletest.AccPublic|classfiletest.AccAbstract).Version(61),
	)
	inspector.AddAllTypes(classes)

	i := model.Lookup("com.acme.I")
	require.NotNil(t, i)
	assert.Equal(t, graph.KindInterface, i.Kind)
	assert.Equal(t, []string{"com.acme.J"}, i.Generalizations)
	assert.Empty(t, i.Realizations)
	assert.Equal(t, graph.KindInterface, model.Lookup("com.acme.J").Kind)

	c := model.Lookup("com.acme.C")
	assert.Equal(t, graph.KindClass, c.Kind)
	assert.True(t, c.IsLeaf)
	assert.False(t, c.IsAbstract)
	assert.Equal(t, []string{"com.acme.S"}, c.Generalizations)
	assert.Equal(t, []string{"com.acme.I"}, c.Realizations)

	s := model.Lookup("com.acme.S")
	assert.True(t, s.IsAbstract)
	version, ok := s.Metadata(graph.MetaBytecodeVersion)
	assert.True(t, ok)
	assert.Equal(t, "61.0", version)
	assert.NotNil(t, model.LookupPackage("com.acme"))
}

func TestInspector_AddAllMembers(t *testing.T) {
	var testCases = []struct {
		description  string
		instructions bool
		expectRefs   []string
	}{
		{description: "signature only"},
		{description: "with instruction references", instructions: true, expectRefs: []string{"com.acme.Helper"}},
	}
	for _, testCase := range testCases {
		model := graph.New("test")
		config := info.DefaultConfig()
		config.IncludeInstructionReferences = testCase.instructions
		inspector := java.NewInspector(model, config)
		classes := decodeAll(t, classfiletest.New("com/acme/Foo").
			Field(classfiletest.AccPrivate|classfiletest.AccStatic|classfiletest.AccFinal, "ids", "[[I").
			Field(classfiletest.AccSynthetic, "this$0", "Ljava/lang/Object;").
			Method(classfiletest.AccPublic, "<init>", "(Ljava/lang/String;)V").
			Method(classfiletest.AccStatic, "<clinit>", "()V").
			Method(classfiletest.AccPublic|classfiletest.AccSynthetic, "access$000", "()V").
			Method(classfiletest.AccProtected, "run", "(IJ)Ljava/util/List;", "com/acme/Helper").
			ParameterNames("count", "deadline").
			Throws("java/io/IOException"),
		)
		inspector.AddAllTypes(classes)
		require.NoError(t, inspector.AddAllMembers(classes), testCase.description)

		foo := model.Lookup("com.acme.Foo")
		require.Len(t, foo.Properties, 1, testCase.description)
		ids := foo.Property("ids")
		assert.Equal(t, "int[][]", ids.Type, testCase.description)
		assert.True(t, ids.IsStatic, testCase.description)
		assert.True(t, ids.IsReadOnly, testCase.description)
		assert.Equal(t, graph.VisibilityPrivate, ids.Visibility, testCase.description)
		array := model.Lookup("int[][]")
		require.NotNil(t, array, testCase.description)
		assert.Equal(t, graph.KindArray, array.Kind, testCase.description)
		assert.Equal(t, graph.KindDataType, model.Lookup("int").Kind, testCase.description)

		require.Len(t, foo.Operations, 2, testCase.description)
		constructor := foo.Operation("Foo(java.lang.String)")
		require.NotNil(t, constructor, testCase.description)
		assert.Equal(t, "arg0", constructor.Parameters[0].Name, testCase.description)

		run := foo.Operation("run(int,long)")
		require.NotNil(t, run, testCase.description)
		assert.Equal(t, "count", run.Parameters[0].Name, testCase.description)
		assert.Equal(t, "deadline", run.Parameters[1].Name, testCase.description)
		assert.Equal(t, "java.util.List", run.Return, testCase.description)
		assert.Equal(t, []string{"java.io.IOException"}, run.Exceptions, testCase.description)
		assert.Equal(t, graph.VisibilityProtected, run.Visibility, testCase.description)
		assert.Equal(t, testCase.expectRefs, run.References, testCase.description)
		assert.Equal(t, testCase.instructions, model.Lookup("com.acme.Helper") != nil, testCase.description)
	}
}

func TestInspector_AddAllMembers_NotFound(t *testing.T) {
	inspector := java.NewInspector(graph.New("test"), nil)
	err := inspector.AddAllMembers(decodeAll(t, classfiletest.New("A")))
	var notFound *graph.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestInspector_AddClassifiersClosure(t *testing.T) {
	pair := classfiletest.MutualPair()
	primary := decodeAll(t, pair[0], pair[1])
	classpath := decodeAll(t,
		classfiletest.New("C"),
		pair[2],
		pair[3],
	)
	inspector := java.NewInspector(graph.New("test"), nil)
	reachable := inspector.AddClassifiersClosure(primary, classpath)
	assert.Equal(t, []string{"B", "B$BB"}, names(reachable))

	assert.Empty(t, inspector.AddClassifiersClosure(decodeAll(t, classfiletest.New("Z")), classpath))
}
