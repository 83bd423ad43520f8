package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/diagnostics"
	"github.com/orizon-lang/circuitc/internal/manifest"
	"github.com/orizon-lang/circuitc/internal/network"
	"github.com/orizon-lang/circuitc/internal/passes"
)

type dumpOptions struct {
	root    *rootOptions
	raw     bool
	network string
}

func newDumpCommand(root *rootOptions) *cobra.Command {
	opts := &dumpOptions{root: root}

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the semantic graph of a program manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the graph as loaded, before any pass runs.")
	cmd.Flags().StringVar(&opts.network, "network", network.DefaultName, "Built-in network profile for the transaction checker.")
	return cmd
}

func runDump(cmd *cobra.Command, opts *dumpOptions, file string) error {
	program, _, err := manifest.NewLoader(nil).LoadFile(file)
	if err != nil {
		return err
	}

	if !opts.raw {
		profile, err := network.Lookup(opts.network)
		if err != nil {
			return err
		}
		handler := diagnostics.NewHandler()
		out, _, _ := passes.DefaultPipeline(opts.root.logger, profile).Run(handler, program)
		program = out
		if handler.HasErrors() {
			defer fmt.Fprintln(cmd.ErrOrStderr(), handler.Summary())
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), programTree(program).String())
	return nil
}

// programTree renders a program as a tree: circuits, then functions, each
// function with its body.
func programTree(p *asg.Program) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue("program " + p.Name)

	for _, id := range p.Circuits {
		c := p.Context.Circuit(id)
		branch := tree.AddBranch("circuit " + c.Name + annotationSuffix(c.Annotations))
		for _, m := range c.Members {
			if m.IsFunction() {
				functionTree(branch, p.Context, p.Context.Function(m.Function))
				continue
			}
			branch.AddNode(m.Variable.Name + ": " + m.Variable.Type.String())
		}
	}
	for _, id := range p.Functions {
		functionTree(tree, p.Context, p.Context.Function(id))
	}
	return tree
}

func annotationSuffix(as *asg.Annotations) string {
	var parts []string
	as.Each(func(_ string, a *asg.Annotation) {
		parts = append(parts, a.String())
	})
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func functionTree(parent treeprint.Tree, ctx *asg.Context, f *asg.Function) {
	label := f.Signature() + annotationSuffix(f.Annotations)
	if f.HasCoreMapping() {
		label += " [core " + f.CoreMapping + "]"
	}
	if f.AlwaysConst {
		label += " [const]"
	}
	if !f.Body.IsValid() {
		parent.AddNode(label)
		return
	}
	statementTree(parent.AddBranch(label), ctx, f.Body)
}

func statementTree(parent treeprint.Tree, ctx *asg.Context, id asg.StmtID) {
	exprs, stmts := ctx.StatementChildren(id)
	if len(exprs) == 0 && len(stmts) == 0 {
		parent.AddNode(ctx.MustStatement(id).Describe())
		return
	}
	branch := parent.AddBranch(ctx.MustStatement(id).Describe())
	for _, e := range exprs {
		expressionTree(branch, ctx, e)
	}
	for _, s := range stmts {
		statementTree(branch, ctx, s)
	}
}

func expressionTree(parent treeprint.Tree, ctx *asg.Context, id asg.ExprID) {
	e := ctx.MustExpression(id)
	label := e.Describe()
	if e.Type != nil {
		label += " : " + e.Type.String()
	}

	children := ctx.ExpressionChildren(id)
	if len(children) == 0 {
		parent.AddNode(label)
		return
	}
	branch := parent.AddBranch(label)
	for _, child := range children {
		expressionTree(branch, ctx, child)
	}
}
