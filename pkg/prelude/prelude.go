// Package prelude installs the built-in namespaces described by a YAML
// manifest. The default manifest ships with the binary and provides `core`.
package prelude

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"bridje/analyser-go/pkg/reader"
	"bridje/analyser-go/pkg/runtime"
	"bridje/analyser-go/pkg/types"
)

// CoreNamespace is the namespace the default manifest provides.
const CoreNamespace = "core"

//go:embed core.yml
var coreManifest []byte

// Manifest lists namespaces to create, in order.
type Manifest struct {
	Path       string
	Namespaces []*NamespaceSpec
}

// NamespaceSpec describes one namespace and the vars it starts with.
type NamespaceSpec struct {
	Name     string
	Requires []string
	Vars     []*VarSpec
}

// VarSpec is one var. Builtin, when set, names a Go implementation that is
// bound as the var's value; otherwise the var is declared without a value.
type VarSpec struct {
	Name    string
	Type    types.Type
	Builtin string
}

type manifestDisk struct {
	Namespaces []namespaceDisk `yaml:"namespaces"`
}

type namespaceDisk struct {
	Name     string    `yaml:"name"`
	Requires []string  `yaml:"requires"`
	Vars     []varDisk `yaml:"vars"`
}

type varDisk struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Builtin string `yaml:"builtin"`
}

// Default returns the embedded manifest.
func Default() (*Manifest, error) {
	return Parse("core.yml", coreManifest)
}

// Load reads a manifest from disk.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return nil, errors.New("prelude: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "prelude: resolve %s", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "prelude: read %s", abs)
	}
	manifest, err := Parse(abs, data)
	if err != nil {
		return nil, err
	}
	manifest.Path = abs
	return manifest, nil
}

// Parse decodes manifest YAML. name is used in error messages. Unknown keys,
// unknown builtins and malformed type strings are rejected here, before any
// environment is touched.
func Parse(name string, data []byte) (*Manifest, error) {
	var raw manifestDisk
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "prelude: parse %s", name)
	}

	manifest := &Manifest{Namespaces: make([]*NamespaceSpec, 0, len(raw.Namespaces))}
	seen := make(map[string]struct{}, len(raw.Namespaces))
	for i, ns := range raw.Namespaces {
		nsName := strings.TrimSpace(ns.Name)
		if nsName == "" {
			return nil, errors.Errorf("prelude: %s: namespace %d has no name", name, i+1)
		}
		if _, dup := seen[nsName]; dup {
			return nil, errors.Errorf("prelude: %s: namespace %s listed twice", name, nsName)
		}
		seen[nsName] = struct{}{}

		spec := &NamespaceSpec{Name: nsName, Vars: make([]*VarSpec, 0, len(ns.Vars))}
		for _, req := range ns.Requires {
			if req = strings.TrimSpace(req); req != "" {
				spec.Requires = append(spec.Requires, req)
			}
		}
		for _, v := range ns.Vars {
			varSpec, err := parseVar(name, nsName, v)
			if err != nil {
				return nil, err
			}
			spec.Vars = append(spec.Vars, varSpec)
		}
		manifest.Namespaces = append(manifest.Namespaces, spec)
	}
	return manifest, nil
}

func parseVar(file, ns string, v varDisk) (*VarSpec, error) {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return nil, errors.Errorf("prelude: %s: var in %s has no name", file, ns)
	}
	if strings.TrimSpace(v.Type) == "" {
		return nil, errors.Errorf("prelude: %s: %s/%s has no type", file, ns, name)
	}
	typ, err := ParseType(v.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "prelude: %s: type of %s/%s", file, ns, name)
	}
	spec := &VarSpec{Name: name, Type: typ, Builtin: strings.TrimSpace(v.Builtin)}
	if spec.Builtin == "" {
		return spec, nil
	}
	impl, ok := builtins[spec.Builtin]
	if !ok {
		return nil, errors.Errorf("prelude: %s: %s/%s uses unknown builtin %s", file, ns, name, spec.Builtin)
	}
	if !types.Equal(impl.signature, typ) {
		return nil, errors.Errorf("prelude: %s: %s/%s is declared %s but builtin %s has type %s",
			file, ns, name, typ, spec.Builtin, impl.signature)
	}
	return spec, nil
}

// ParseType reads a type annotation written as source text, e.g.
// `(-> Int Int Bool)`.
func ParseType(src string) (types.Type, error) {
	f, err := reader.ReadOne(src)
	if err != nil {
		return nil, err
	}
	return types.FromForm(f)
}

// Apply creates each namespace, records its requires and installs its vars.
// A require must name a namespace that already exists in env or appears
// earlier in the manifest.
func Apply(env *runtime.Environment, manifest *Manifest) error {
	if env == nil {
		return errors.New("prelude: environment is nil")
	}
	if manifest == nil {
		return errors.New("prelude: manifest is nil")
	}
	for _, ns := range manifest.Namespaces {
		env.Namespace(ns.Name)
		for _, req := range ns.Requires {
			if err := env.Require(ns.Name, req); err != nil {
				return errors.Wrapf(err, "prelude: namespace %s", ns.Name)
			}
		}
		for _, v := range ns.Vars {
			if err := installVar(env, ns.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func installVar(env *runtime.Environment, ns string, v *VarSpec) error {
	if v.Builtin == "" {
		if _, err := env.DeclareVar(ns, v.Name, v.Type); err != nil {
			return errors.Wrapf(err, "prelude: declare %s/%s", ns, v.Name)
		}
		return nil
	}
	impl, ok := builtins[v.Builtin]
	if !ok {
		return errors.Errorf("prelude: %s/%s uses unknown builtin %s", ns, v.Name, v.Builtin)
	}
	value := runtime.NativeFunctionValue{
		Name:      ns + "/" + v.Name,
		Signature: impl.signature,
		Impl:      impl.impl,
	}
	if _, err := env.Define(ns, v.Name, value); err != nil {
		return errors.Wrapf(err, "prelude: define %s/%s", ns, v.Name)
	}
	return nil
}

// Bootstrap installs the embedded core namespace into env.
func Bootstrap(env *runtime.Environment) error {
	manifest, err := Default()
	if err != nil {
		return err
	}
	return Apply(env, manifest)
}
