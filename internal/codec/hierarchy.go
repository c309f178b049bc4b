package codec

import "github.com/ternarybob/prezo/internal/models"

// Flatten projects a hierarchy tree into its editing-time row list: a
// pre-order walk where each row carries the node name and its depth from
// the root. A nil root yields an empty list.
func Flatten(root *models.HierarchyNode) []models.FlatNode {
	if root == nil {
		return []models.FlatNode{}
	}
	rows := make([]models.FlatNode, 0, 8)
	return appendFlat(rows, root, 0)
}

func appendFlat(rows []models.FlatNode, node *models.HierarchyNode, level int) []models.FlatNode {
	rows = append(rows, models.FlatNode{Name: node.Name, Level: level})
	for _, child := range node.Children {
		rows = appendFlat(rows, child, level+1)
	}
	return rows
}

// Unflatten rebuilds a tree from an ordered row list. For each row it pops
// the ancestor stack while the top's level is >= the row's level, attaches
// the new node to the surviving top, then pushes it.
//
// Well-formed input (first row level 0, each level at most one deeper than
// its predecessor, a single level-0 row) reconstructs the original tree
// exactly. Irregular input is repaired rather than rejected: a row whose
// pops empty the stack (a second level-0 row) attaches under the root, so
// no row is ever dropped. An empty list yields nil.
func Unflatten(rows []models.FlatNode) *models.HierarchyNode {
	if len(rows) == 0 {
		return nil
	}

	root := &models.HierarchyNode{Name: rows[0].Name, Children: []*models.HierarchyNode{}}
	stack := []*stackEntry{{node: root, level: rows[0].Level}}

	for _, row := range rows[1:] {
		node := &models.HierarchyNode{Name: row.Name, Children: []*models.HierarchyNode{}}

		for len(stack) > 0 && row.Level <= stack[len(stack)-1].level {
			stack = stack[:len(stack)-1]
		}

		parent := root
		level := row.Level
		if len(stack) > 0 {
			parent = stack[len(stack)-1].node
		} else {
			level = 1
		}
		parent.Children = append(parent.Children, node)
		stack = append(stack, &stackEntry{node: node, level: level})
	}
	return root
}

type stackEntry struct {
	node  *models.HierarchyNode
	level int
}

// RenameRow returns a copy of rows with row i renamed. Out-of-range indices
// return the rows unchanged.
func RenameRow(rows []models.FlatNode, i int, name string) []models.FlatNode {
	out := copyRows(rows)
	if i < 0 || i >= len(out) {
		return out
	}
	out[i].Name = name
	return out
}

// IndentRow deepens row i by one level. The first row can never indent, and
// no row may end up more than one level deeper than its predecessor; either
// condition makes this a no-op.
func IndentRow(rows []models.FlatNode, i int) []models.FlatNode {
	out := copyRows(rows)
	if i <= 0 || i >= len(out) {
		return out
	}
	if out[i].Level >= out[i-1].Level+1 {
		return out
	}
	out[i].Level++
	return out
}

// OutdentRow shallows row i by one level; rows already at level 0 stay put.
func OutdentRow(rows []models.FlatNode, i int) []models.FlatNode {
	out := copyRows(rows)
	if i < 0 || i >= len(out) {
		return out
	}
	if out[i].Level == 0 {
		return out
	}
	out[i].Level--
	return out
}

// InsertRowAfter inserts a new sibling row directly after row i, at the
// same level. Inserting into an empty list creates the root row; an
// out-of-range index appends at the end at level 0.
func InsertRowAfter(rows []models.FlatNode, i int, name string) []models.FlatNode {
	out := copyRows(rows)
	if len(out) == 0 {
		return []models.FlatNode{{Name: name, Level: 0}}
	}
	if i < 0 || i >= len(out) {
		return append(out, models.FlatNode{Name: name, Level: 0})
	}

	row := models.FlatNode{Name: name, Level: out[i].Level}
	out = append(out, models.FlatNode{})
	copy(out[i+2:], out[i+1:])
	out[i+1] = row
	return out
}

// RemoveSubtree removes row i together with the contiguous run of strictly
// deeper rows that follows it, which is exactly the node's subtree in the
// pre-order projection. Out-of-range indices are a no-op.
func RemoveSubtree(rows []models.FlatNode, i int) []models.FlatNode {
	out := copyRows(rows)
	if i < 0 || i >= len(out) {
		return out
	}

	end := i + 1
	for end < len(out) && out[end].Level > out[i].Level {
		end++
	}
	return append(out[:i], out[end:]...)
}

func copyRows(rows []models.FlatNode) []models.FlatNode {
	return append([]models.FlatNode(nil), rows...)
}
