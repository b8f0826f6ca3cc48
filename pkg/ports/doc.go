/*
Package ports defines the interfaces between the Arbor core and its
collaborators (driven ports).

The engine consumes capabilities through Resolver/Capability and has no
opinion on how providers are implemented. RecordStore and TreeSource
decouple persistence and configuration retrieval from the core.
*/
package ports
