package schemamodel

import (
	"log/slog"

	"github.com/reoring/schemamodel/internal/compile"
	"github.com/reoring/schemamodel/internal/graph"
	"github.com/reoring/schemamodel/model"
	"github.com/reoring/schemamodel/schema"
)

// Options configures a Compiler. The zero value is ready to use.
type Options struct {
	// Merge derives a model's keywords from its definitions; model.Merge
	// when nil.
	Merge model.MergeFunc
	// Logger receives debug records about node and model construction;
	// discarded when nil.
	Logger *slog.Logger
}

// Stats describes the last successful Build.
type Stats struct {
	Nodes  int // distinct definition combinations registered
	Models int // models reachable from the root; at most Nodes
}

// Compiler builds models. It keeps per-build state and must not be used by
// more than one goroutine at a time; use one Compiler per goroutine.
type Compiler struct {
	reg     *graph.Registry
	builder *graph.Builder
	cache   *compile.Cache
	models  *compile.Compiler
	log     *slog.Logger
	stats   Stats
}

func NewCompiler(opts Options) *Compiler {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	reg := graph.NewRegistry()
	cache := compile.NewCache()
	return &Compiler{
		reg:     reg,
		builder: graph.NewBuilder(reg, log),
		cache:   cache,
		models:  compile.NewCompiler(cache, opts.Merge),
		log:     log,
	}
}

// Build compiles the definition graph rooted at root. Errors are Issues.
func (c *Compiler) Build(root *schema.Schema) (*model.Model, error) {
	c.reg.Reset()
	c.cache.Reset()
	c.stats = Stats{}

	node, err := c.builder.AddSchema(nil, root)
	if err != nil {
		return nil, c.fail(err)
	}
	m, err := c.models.BuildNodeModel(node)
	if err != nil {
		return nil, c.fail(err)
	}
	c.stats = Stats{Nodes: c.reg.Len(), Models: c.cache.Len()}
	c.log.Debug("schemamodel: compiled", "root", node.String(), "nodes", c.stats.Nodes, "models", c.stats.Models)
	return m, nil
}

// Stats reports counts for the last successful Build (zero after a failure).
func (c *Compiler) Stats() Stats { return c.stats }

func (c *Compiler) fail(err error) error {
	iss := issuesFrom(err)
	c.log.Debug("schemamodel: compile failed", "error", iss.Error())
	return iss
}

// Build compiles root with a fresh default Compiler.
func Build(root *schema.Schema) (*model.Model, error) {
	return NewCompiler(Options{}).Build(root)
}

// CompileJSON parses a JSON schema document and compiles it.
func CompileJSON(data []byte, opts Options) (*model.Model, error) {
	s, err := schema.Parse(data)
	if err != nil {
		return nil, issuesFrom(err)
	}
	return NewCompiler(opts).Build(s)
}

// CompileYAML parses a YAML schema document and compiles it.
func CompileYAML(data []byte, opts Options) (*model.Model, error) {
	s, err := schema.ParseYAML(data)
	if err != nil {
		return nil, issuesFrom(err)
	}
	return NewCompiler(opts).Build(s)
}
