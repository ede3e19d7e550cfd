// Package bindings builds the name to value maps a template is rendered
// against. Sources are layered with Merge, later layers winning:
//
//   - LoadStamps reads Bazel workspace status files ("KEY VALUE" lines).
//   - ParseAssignments turns NAME=VALUE flags into bindings, expanding
//     single-brace {STAMP} references in each value against the stamps.
//   - Load and Decode read flat JSON, YAML or TOML objects; Select narrows a
//     JSON document to a nested object with a gjson path first.
//   - FromConfigMap, DecodeConfigMap and FetchConfigMap take the data of a
//     Kubernetes ConfigMap, from an object, a manifest or a live cluster.
package bindings
