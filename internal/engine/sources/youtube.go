package sources

// YouTube implementation is split across three files by responsibility:
//   youtube_innertube.go  — Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go — timed transcript fetching (page scrape + engagement panel + ANDROID player)
//   youtube_metadata.go   — URL validation and metadata (Data API v3 + watch page fallbacks)
