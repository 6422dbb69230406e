package models

import "time"

// TrackedProduct is one entry of the tracked-URL list.
type TrackedProduct struct {
	URL     string    // URL is the unique key of the product within the store.
	ASIN    string    // ASIN is the Amazon product identifier taken from the URL.
	AddedAt time.Time // AddedAt is when the product was added to the list.
}
