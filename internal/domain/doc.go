// Package domain contains the core business entities, value objects, and
// domain rules of the follow-up task system. It is independent of any
// storage or delivery mechanism.
package domain
