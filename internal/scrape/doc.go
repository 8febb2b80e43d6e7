// Package scrape wraps the content discovery API used to pull recent
// videos for monitored profiles and hashtags. Responses arrive in the
// platform's native aweme_list shape and are flattened into Video values
// before the rest of the system sees them.
package scrape
