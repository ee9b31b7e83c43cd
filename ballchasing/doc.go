// Package ballchasing provides a client for the ballchasing.com API.
//
// ballchasing.com hosts Rocket League replays and computes per-match
// statistics for them. This package implements a typed Go client for the
// replay and group endpoints.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: The main API client with optional rate-limit backoff
//   - Types: Filter structs and the enumerated values the API accepts
//   - Iterators: Lazy cursor pagination for the listing endpoints
//   - Errors: Structured error types for better error handling
//
// # Usage
//
// Create a new client with your ballchasing API token:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := ballchasing.NewClient(
//		"your-api-token",
//		logger,
//		ballchasing.WithBackoff(5),
//		ballchasing.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Search replays, fetching pages lazily as the iterator advances
//	ctx := context.Background()
//	it, err := client.ListReplays(ctx, ballchasing.ReplayFilter{
//		PlayerName: "GarrettG",
//		Playlist:   ballchasing.PlaylistRankedDoubles,
//	}, 50)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for it.Next() {
//		fmt.Println(it.Replay().ID())
//	}
//	if err := it.Err(); err != nil {
//		log.Fatal(err)
//	}
//
// # Rate limiting
//
// The server throttles per-token request rates depending on the account's
// patronage tier (see Ping). With WithBackoff enabled the client retries
// HTTP 429 responses with exponentially growing delays, up to the
// configured attempt count; every other failure is surfaced immediately.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrInvalidConfig: Invalid client configuration
//   - ErrInvalidArgument: A parameter outside its documented set
//   - ArgumentError: Names the rejected parameter and its allowed values
//   - APIError: Structured API errors with status codes
//
// API errors include helper methods for classification:
//
//	if apiErr, ok := err.(*ballchasing.APIError); ok {
//		if apiErr.IsRateLimited() {
//			// retries exhausted
//		}
//	}
//
// or the package-level helpers ballchasing.IsNotFound, IsConflict and
// IsRateLimited.
package ballchasing
