package doxml_test

import (
	"testing"

	"github.com/g5becks/doxmd/internal/doxml"
)

func TestNodeAttrLookup(t *testing.T) {
	t.Parallel()

	node := &doxml.Node{
		Name: "ref",
		Attrs: []doxml.Attr{
			{Name: "refid", Value: "class_foo"},
			{Name: "kindref", Value: "compound"},
			{Name: "refid", Value: "shadowed"},
		},
	}

	if value, ok := node.Attr("refid"); !ok || value != "class_foo" {
		t.Errorf("Attr(refid) = (%q, %v), want (class_foo, true)", value, ok)
	}
	if value, ok := node.Attr("missing"); ok || value != "" {
		t.Errorf("Attr(missing) = (%q, %v), want (\"\", false)", value, ok)
	}
}

func TestNodeChildLookup(t *testing.T) {
	t.Parallel()

	first := &doxml.Node{Name: "para"}
	second := &doxml.Node{Name: "para"}
	node := &doxml.Node{
		Name: "detaileddescription",
		Children: []*doxml.Node{
			{Name: doxml.TextName, Text: "  "},
			first,
			{Name: "simplesect"},
			second,
		},
	}

	if got := node.Child("para"); got != first {
		t.Errorf("Child(para) = %p, want first para %p", got, first)
	}
	if got := node.Child("missing"); got != nil {
		t.Errorf("Child(missing) = %#v, want nil", got)
	}

	paras := node.ChildrenNamed("para")
	if len(paras) != 2 || paras[0] != first || paras[1] != second {
		t.Errorf("ChildrenNamed(para) = %#v, want both paras in order", paras)
	}
	if got := node.ChildrenNamed("missing"); got != nil {
		t.Errorf("ChildrenNamed(missing) = %#v, want nil", got)
	}
}

func TestNodePlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *doxml.Node
		want string
	}{
		{
			name: "text node returns its text",
			node: &doxml.Node{Name: doxml.TextName, Text: "hello"},
			want: "hello",
		},
		{
			name: "element concatenates descendants in order",
			node: &doxml.Node{
				Name: "para",
				Children: []*doxml.Node{
					{Name: doxml.TextName, Text: "a "},
					{Name: "bold", Children: []*doxml.Node{
						{Name: doxml.TextName, Text: "b"},
					}},
					{Name: doxml.TextName, Text: " c"},
				},
			},
			want: "a b c",
		},
		{
			name: "empty element",
			node: &doxml.Node{Name: "para"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.node.PlainText(); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeIsText(t *testing.T) {
	t.Parallel()

	if (&doxml.Node{Name: "para"}).IsText() {
		t.Error("IsText() = true for element, want false")
	}
	if !(&doxml.Node{Name: doxml.TextName}).IsText() {
		t.Error("IsText() = false for text node, want true")
	}
}
