package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/thomas-vilte/matereview/internal/models"
)

type treeNode struct {
	name     string
	isFile   bool
	bytes    int
	children map[string]*treeNode
}

// ShowFilesTree prints the selected files as a directory tree with their sizes.
func ShowFilesTree(w io.Writer, files []models.FileEntry, headerMessage string) {
	if len(files) == 0 {
		return
	}

	_, _ = fmt.Fprintf(w, "\n%s %s\n", StatsEmoji, headerMessage)
	printTree(w, buildFileTree(files), "", true)
}

func buildFileTree(files []models.FileEntry) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for _, file := range files {
		parts := strings.Split(file.Path, "/")
		current := root

		for i, part := range parts {
			isFile := i == len(parts)-1
			child, ok := current.children[part]
			if !ok {
				child = &treeNode{
					name:     part,
					isFile:   isFile,
					children: make(map[string]*treeNode),
				}
				current.children[part] = child
			}
			if isFile {
				child.bytes = file.ByteLength
			}
			current = child
		}
	}
	return root
}

func printTree(w io.Writer, node *treeNode, prefix string, isLast bool) {
	if node.name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := node.name
		stats := ""
		if node.isFile {
			stats = Dim.Sprintf(" (%d bytes)", node.bytes)
		} else {
			name = Info.Sprint(name + "/")
		}

		_, _ = fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, stats)
	}

	childPrefix := prefix
	if node.name != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sortFileTree(keys, node.children)

	for i, key := range keys {
		printTree(w, node.children[key], childPrefix, i == len(keys)-1)
	}
}

// sortFileTree sorts the keys: directories first, then files
func sortFileTree(keys []string, nodes map[string]*treeNode) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := nodes[keys[i]], nodes[keys[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return keys[i] < keys[j]
	})
}

// PrintDependencies lists declared dependencies under a header.
func PrintDependencies(w io.Writer, deps []models.Dependency, header string) {
	if len(deps) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", Info.Sprint(header))
	for _, d := range deps {
		line := d.Name
		if d.Version != "" {
			line += " " + Dim.Sprint(d.Version)
		}
		_, _ = fmt.Fprintf(w, "   • %s (%s)\n", line, d.Manager)
	}
}
