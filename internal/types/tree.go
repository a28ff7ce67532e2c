// Package types contains the values produced by running the LL(1) parser that
// are handed back to callers: parse trees and derivation steps.
package types

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rezi"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// ParseTree is a node of a concrete parse tree. Each node owns its children.
// A leaf either has no children or, for a non-terminal that derived the empty
// string, a single child whose Value is "ε".
type ParseTree struct {
	// Terminal is whether this node is for a terminal symbol.
	Terminal bool `json:"-"`

	// Value is the symbol at this node.
	Value string `json:"name"`

	// Children is all children of the parse tree, in production order.
	Children []*ParseTree `json:"children"`
}

// NewLeaf returns a node for sym with no children.
func NewLeaf(sym string, terminal bool) *ParseTree {
	return &ParseTree{Terminal: terminal, Value: sym, Children: []*ParseTree{}}
}

// String returns a prettified representation of the entire parse tree suitable
// for use in line-by-line comparisons of tree structure. Two parse trees are
// considered semantcally identical if they produce identical String() output.
func (pt ParseTree) String() string {
	return pt.leveledStr("", "")
}

// Copy returns a duplicate, deeply-copied parse tree.
func (pt ParseTree) Copy() ParseTree {
	newPt := ParseTree{
		Terminal: pt.Terminal,
		Value:    pt.Value,
		Children: make([]*ParseTree, len(pt.Children)),
	}

	for i := range pt.Children {
		if pt.Children[i] != nil {
			newChild := pt.Children[i].Copy()
			newPt.Children[i] = &newChild
		}
	}

	return newPt
}

// Leaves returns the Value of every leaf node from left to right. Nodes for
// the empty string are skipped, so the result for an accepted parse is exactly
// the input tokens.
func (pt ParseTree) Leaves() []string {
	leaves := []string{}
	pt.collectLeaves(&leaves)
	return leaves
}

func (pt ParseTree) collectLeaves(leaves *[]string) {
	if len(pt.Children) == 0 {
		if pt.Terminal && pt.Value != "ε" {
			*leaves = append(*leaves, pt.Value)
		}
		return
	}
	for _, ch := range pt.Children {
		ch.collectLeaves(leaves)
	}
}

func (pt ParseTree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if pt.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", pt.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pt.Value))
	}

	for i := range pt.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(pt.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		itemOut := pt.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix)
		sb.WriteString(itemOut)
	}

	return sb.String()
}

// Equal returns whether the parseTree is equal to the given object. If the
// given object is not a parseTree, returns false, else returns whether the two
// parse trees have the exact same structure.
func (pt ParseTree) Equal(o any) bool {
	other, ok := o.(ParseTree)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*ParseTree)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if pt.Terminal != other.Terminal {
		return false
	} else if pt.Value != other.Value {
		return false
	} else {
		// check every sub tree
		if len(pt.Children) != len(other.Children) {
			return false
		}

		for i := range pt.Children {
			if !pt.Children[i].Equal(other.Children[i]) {
				return false
			}
		}
	}
	return true
}

// MarshalBinary encodes the tree, children included, into a byte slice.
func (pt ParseTree) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncBool(pt.Terminal)...)
	data = append(data, rezi.EncString(pt.Value)...)
	data = append(data, rezi.EncInt(len(pt.Children))...)
	for i := range pt.Children {
		data = append(data, rezi.EncBinary(pt.Children[i])...)
	}

	return data, nil
}

// UnmarshalBinary decodes a tree previously encoded with MarshalBinary. All
// prior contents of pt are replaced.
func (pt *ParseTree) UnmarshalBinary(data []byte) error {
	var err error
	var bytesRead int

	pt.Terminal, bytesRead, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	data = data[bytesRead:]

	pt.Value, bytesRead, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	data = data[bytesRead:]

	var childCount int
	childCount, bytesRead, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("child count: %w", err)
	}
	data = data[bytesRead:]
	if childCount < 0 {
		return fmt.Errorf("child count < 0")
	}

	pt.Children = make([]*ParseTree, childCount)
	for i := 0; i < childCount; i++ {
		child := &ParseTree{}
		bytesRead, err = rezi.DecBinary(data, child)
		if err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
		data = data[bytesRead:]
		pt.Children[i] = child
	}

	return nil
}
