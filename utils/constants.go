// File: utils/constants.go
package utils

// Broadcast topic names shared between publishers and subscribers.
const (
	// TopicAdverts carries advertisement blurbs to idle ATMs.
	TopicAdverts = "advert"
	// TopicAccountDirectory carries directory-wide requests to every shard.
	TopicAccountDirectory = "request-customer-accounts"
)
