package directory

// BuildTree arranges a flat department list into a forest by parent id.
// Departments pointing at a missing parent surface as roots instead of
// disappearing.
func BuildTree(departments []Department) []*DepartmentNode {
	nodes := make(map[string]*DepartmentNode, len(departments))
	for _, dep := range departments {
		nodes[dep.ID] = &DepartmentNode{Department: dep}
	}

	var roots []*DepartmentNode
	for _, dep := range departments {
		node := nodes[dep.ID]
		if dep.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[dep.ParentID]
		if !ok || dep.ParentID == dep.ID {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}
