// Package domain contains the core business entities, value objects, and
// domain logic of the session orchestration engine: the StudyPackage bundle
// returned for a topic, its quiz and schedule parts, and the Entitlement
// record that gates access to the engine. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
