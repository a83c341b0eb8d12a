/*
Package ports defines the driven ports (interfaces) for the Sieve service.

These interfaces decouple the service from concrete schema-definition
backends, allowing definitions to live in a Loam repository, in Redis, or in
memory without the service layer knowing which.

# Key Interfaces

  - Source: read access to named schema definition documents.
  - Store: a writable Source (save and delete definitions).
  - Watchable: sources that can signal definition changes for hot reload.
  - Describer: sources that carry human-readable documentation per schema.
*/
package ports
