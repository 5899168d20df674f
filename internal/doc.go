// Package internal holds packages shared by goAuthFlow and its commands that
// are not part of the public API.
package internal
