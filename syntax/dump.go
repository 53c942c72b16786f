package syntax

import (
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"
)

// Dump renders program tree for troubleshooting.
func Dump(p *Program) string {
	root := treeprint.NewWithRoot(fmt.Sprintf("program (%d lines)", len(p.lines)))
	dumpSeq(root, p, p.Items)
	return root.String()
}

func dumpSeq(t treeprint.Tree, p *Program, seq Seq) {
	for _, n := range seq {
		dumpNode(t, p, n)
	}
}

func dumpNode(t treeprint.Tree, p *Program, n Node) {
	line, col := p.Position(n.Pos())
	meta := fmt.Sprintf("%d:%d", line, col)

	switch n := n.(type) {
	case *Token:
		t.AddMetaNode(meta, fmt.Sprintf("%s %s", n.Type, n.Text))
	case *Number:
		t.AddMetaNode(meta, "number "+n.Text)
	case *String:
		t.AddMetaNode(meta, "string "+n.Raw)
	case *Text:
		t.AddMetaNode(meta, "text "+strconv.Quote(n.Raw))
	case *Quasi:
		t.AddMetaNode(meta, "quasi "+strconv.Quote(n.Raw))
	case *Group:
		b := t.AddMetaBranch(meta, "group "+n.Open.String())
		dumpSeq(b, p, n.Items)
	case *Container:
		b := t.AddMetaBranch(meta, "container")
		dumpSeq(b, p, n.Items)
	case *Template:
		b := t.AddMetaBranch(meta, "template")
		for i, q := range n.Quasis {
			dumpNode(b, p, q)
			if i < len(n.Exprs) {
				dumpSeq(b.AddBranch("expr"), p, n.Exprs[i])
			}
		}
	case *Element:
		name := n.Name
		if n.Fragment() {
			name = "<>"
		}
		b := t.AddMetaBranch(meta, "element "+name)
		for _, a := range n.Attrs {
			dumpNode(b, p, a)
		}
		dumpSeq(b, p, n.Children)
	case *Attribute:
		label := "attr " + n.Name
		if n.Spread {
			label = "attr ..."
		}
		if n.Value == nil {
			t.AddMetaNode(meta, label)
			return
		}
		dumpNode(t.AddMetaBranch(meta, label), p, n.Value)
	}
}
