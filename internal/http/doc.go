// Package http provides the HTTP client used for catalog API calls and
// media downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request headers and query parameters
//   - Non-2xx responses as *StatusError, body included
//   - In-memory downloads with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(0)
//
//	// Call a JSON endpoint
//	body, err := client.Get(ctx, apiURL, http.WithQuery(params))
//
//	// Download a media file with progress callback
//	data, err := client.DownloadBytes(ctx, mediaURL, func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   &buf,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
