package directory

import "testing"

func TestBuildTree(t *testing.T) {
	departments := []Department{
		{ID: "root", Name: "Diretoria"},
		{ID: "eng", Name: "Engenharia", ParentID: "root"},
		{ID: "rh", Name: "RH", ParentID: "root"},
		{ID: "backend", Name: "Backend", ParentID: "eng"},
		{ID: "orphan", Name: "Comercial", ParentID: "missing"},
	}

	roots := BuildTree(departments)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}

	byID := map[string]*DepartmentNode{}
	var walk func(nodes []*DepartmentNode)
	walk = func(nodes []*DepartmentNode) {
		for _, n := range nodes {
			byID[n.ID] = n
			walk(n.Children)
		}
	}
	walk(roots)

	if len(byID["root"].Children) != 2 {
		t.Fatalf("expected 2 children under root, got %d", len(byID["root"].Children))
	}
	if len(byID["eng"].Children) != 1 || byID["eng"].Children[0].ID != "backend" {
		t.Fatal("backend should hang under engineering")
	}
	if _, ok := byID["orphan"]; !ok {
		t.Fatal("department with missing parent should surface as a root")
	}
}

func TestBuildTreeSelfParent(t *testing.T) {
	roots := BuildTree([]Department{{ID: "loop", Name: "Loop", ParentID: "loop"}})
	if len(roots) != 1 || roots[0].ID != "loop" {
		t.Fatal("self-parented department should become a root")
	}
}
