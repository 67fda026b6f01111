// Package types defines the catalog entities, the JSON input records the
// importer reads, the enumerations shared by the importer and the API, and the
// standard errors for the elestrals catalog.
package types
