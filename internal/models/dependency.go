package models

// Dependency is one package declared in a repository manifest.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Manager string `json:"manager"`
	Dev     bool   `json:"dev,omitempty"`
}
