package analyzer_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/classmodel/analyzer"
	"github.com/viant/classmodel/inspector/classfile"
	"github.com/viant/classmodel/inspector/classfile/classfiletest"
	"github.com/viant/classmodel/inspector/graph"
	"github.com/viant/classmodel/inspector/java"
)

// cyclicModel: declared app.X refers to lib.D which refers back to app.X; declared other.W is unrelated
func cyclicModel() (*graph.Model, analyzer.TypeSet) {
	model := graph.New("test")
	x, _ := model.LookupOrCreate(graph.NewName("app", "X"), graph.KindClass)
	d, _ := model.LookupOrCreate(graph.NewName("lib", "D"), graph.KindClass)
	w, _ := model.LookupOrCreate(graph.NewName("other", "W"), graph.KindClass)
	inner, _ := model.LookupOrCreate(graph.NewName("other", "W", "Inner"), graph.KindClass)
	x.AddProperty(&graph.Property{Name: "d", Type: d.QualifiedName})
	d.AddOperation(&graph.Operation{Name: "accept", Parameters: []*graph.Parameter{{Name: "x", Type: x.QualifiedName}}})
	w.AddOperation(&graph.Operation{Name: "run", Return: inner.QualifiedName})
	return model, analyzer.NewTypeSet(x, w, inner)
}

func scenarioModel(t *testing.T) (*graph.Model, []*classfile.Class) {
	var classes []*classfile.Class
	for _, builder := range classfiletest.MutualPair() {
		class, err := classfile.Decode(builder.Bytes())
		require.NoError(t, err)
		classes = append(classes, class)
	}
	primary, classpath := classes[:2], classes[2:]
	model := graph.New("test")
	inspector := java.NewInspector(model, nil)
	reachable := inspector.AddClassifiersClosure(primary, classpath)
	inspector.AddAllTypes(append(append([]*classfile.Class{}, primary...), reachable...))
	require.NoError(t, inspector.AddAllMembers(primary))
	return model, primary
}

func TestAnalyzer_PruneDependencies_Scenario(t *testing.T) {
	model, primary := scenarioModel(t)
	an := analyzer.New(model)
	contained := an.FindContainedTypes(primary)
	assert.Equal(t, []string{"A", "A.AA"}, contained.Names())

	actual := an.PruneDependencies(contained)
	assert.Equal(t, []string{"A", "A.AA"}, actual.Names())

	a := model.Lookup("A")
	require.NotNil(t, a)
	assert.False(t, a.IsInferred())
	assert.NotNil(t, a.Property("b"))
	assert.False(t, a.Property("b").IsInferred())
	assert.False(t, model.Lookup("A.AA").IsInferred())

	for _, name := range []string{"B", "B.BB", "java.lang.Object"} {
		aType := model.Lookup(name)
		require.NotNil(t, aType, name)
		assert.True(t, aType.IsInferred(), name)
		assert.False(t, aType.HasMembers(), name)
	}
}

func TestAnalyzer_PruneDependencies_Cycle(t *testing.T) {
	model, contained := cyclicModel()
	an := analyzer.New(model)
	actual := an.PruneDependencies(contained)
	assert.Equal(t, []string{"app.X"}, actual.Names())

	x := model.Lookup("app.X")
	require.NotNil(t, x, spew.Sdump(model.Types()))
	assert.False(t, x.HasMembers())
	assert.False(t, x.IsInferred())

	for _, name := range []string{"other.W", "other.W.Inner"} {
		assert.Nil(t, model.Lookup(name), name)
	}
	assert.Nil(t, model.LookupPackage("other"))

	d := model.Lookup("lib.D")
	require.NotNil(t, d)
	assert.True(t, d.IsInferred())
	require.Len(t, d.Operations, 1)
	assert.True(t, d.Operations[0].IsInferred())
}

func TestAnalyzer_PruneDependencies_NoCycle(t *testing.T) {
	model := graph.New("test")
	x, _ := model.LookupOrCreate(graph.NewName("app", "X"), graph.KindClass)
	d, _ := model.LookupOrCreate(graph.NewName("lib", "D"), graph.KindClass)
	x.AddProperty(&graph.Property{Name: "d", Type: d.QualifiedName})
	an := analyzer.New(model)
	actual := an.PruneDependencies(analyzer.NewTypeSet(x))
	assert.Equal(t, []string{"app.X"}, actual.Names())
	assert.True(t, x.HasMembers())
	assert.Nil(t, x.Annotation)
	assert.True(t, d.IsInferred())
}

func TestAnalyzer_TagInferred(t *testing.T) {
	model, contained := cyclicModel()
	an := analyzer.New(model)
	inferred := an.FindInferredTypes(contained)
	assert.Equal(t, []string{"lib.D"}, inferred.Names())

	an.TagInferred(inferred)
	once, err := model.Fingerprint()
	require.NoError(t, err)
	an.TagInferred(inferred)
	twice, err := model.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	d := model.Lookup("lib.D")
	assert.True(t, d.IsInferred())
	assert.Nil(t, model.Lookup("app.X").Annotation)

	an.TagInferred(analyzer.TypeSet{})
	assert.False(t, d.IsInferred())
	assert.Nil(t, d.Annotation, "the inferred key is removed rather than overwritten")
	assert.Nil(t, d.Operations[0].Annotation)
}

func TestAnalyzer_FindAllReferredTypes(t *testing.T) {
	model, _ := cyclicModel()
	an := analyzer.New(model)
	lookup := func(names ...string) analyzer.TypeSet {
		ret := analyzer.TypeSet{}
		for _, name := range names {
			ret.Add(model.Lookup(name))
		}
		return ret
	}
	var testCases = []struct {
		description string
		start       []string
		expect      []string
	}{
		{description: "empty", expect: []string{}},
		{description: "leaf", start: []string{"other.W.Inner"}, expect: []string{}},
		{description: "dependency", start: []string{"lib.D"}, expect: []string{"app.X", "lib.D"}},
		{description: "declared", start: []string{"other.W"}, expect: []string{"other.W.Inner"}},
	}
	for _, testCase := range testCases {
		actual := an.FindAllReferredTypes(lookup(testCase.start...))
		assert.Equal(t, testCase.expect, actual.Names(), testCase.description)
	}

	subsets := [][]string{
		{},
		{"other.W"},
		{"other.W", "other.W.Inner"},
		{"other.W", "other.W.Inner", "lib.D"},
		{"other.W", "other.W.Inner", "lib.D", "app.X"},
	}
	for i := 1; i < len(subsets); i++ {
		smaller := an.FindAllReferredTypes(lookup(subsets[i-1]...))
		larger := an.FindAllReferredTypes(lookup(subsets[i]...))
		assert.True(t, smaller.IsSubsetOf(larger), "%v ⊆ %v", smaller.Names(), larger.Names())
	}
}

func TestAnalyzer_FindContainerTypes(t *testing.T) {
	model := graph.New("test")
	deep, _ := model.LookupOrCreate(graph.NewName("p", "A", "B", "C"), graph.KindClass)
	user, _ := model.LookupOrCreate(graph.NewName("p", "User"), graph.KindClass)
	user.AddProperty(&graph.Property{Name: "c", Type: deep.QualifiedName})
	an := analyzer.New(model)

	referred := an.FindAllReferredTypes(analyzer.NewTypeSet(user))
	assert.Equal(t, []string{"p.A.B.C"}, referred.Names())
	expanded := an.FindContainerTypes(referred)
	assert.Equal(t, []string{"p.A", "p.A.B", "p.A.B.C"}, expanded.Names())
	for _, aType := range expanded {
		if aType.IsNested() {
			assert.True(t, expanded.Has(aType.Owner), aType.QualifiedName)
		}
	}
}

func TestAnalyzer_InstructionReferences(t *testing.T) {
	model := graph.New("test")
	user, _ := model.LookupOrCreate(graph.NewName("p", "User"), graph.KindClass)
	helper, _ := model.LookupOrCreate(graph.NewName("p", "Helper"), graph.KindClass)
	operation := &graph.Operation{Name: "run"}
	operation.AddReference(helper.QualifiedName)
	user.AddOperation(operation)

	assert.Empty(t, analyzer.New(model).FindAllReferredTypes(analyzer.NewTypeSet(user)).Names())
	assert.Equal(t, []string{"p.Helper"}, analyzer.New(model, analyzer.WithInstructionReferences(true)).FindAllReferredTypes(analyzer.NewTypeSet(user)).Names())
}
