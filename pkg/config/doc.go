// Package config loads melodyd configuration from environment variables.
//
// The launcher contract supplies MUSIC_DIRECTORY, SERVER_PORT, and APP_TITLE.
// Everything else is tunable through MELODY_-prefixed variables with sensible
// defaults, so the server runs with no configuration at all during
// development.
package config
