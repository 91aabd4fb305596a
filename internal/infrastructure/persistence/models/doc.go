// Package models contains the GORM persistence models and their mappers.
// Domain entities carry no ORM tags; repositories convert through ToDomain
// and the *ModelFromDomain constructors.
package models
