package storage

import "carscout/models"

// ListingWriter is the interface any normalized-listing sink must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
