// Package ui embeds the browser chat page served on GET /.
//
// The page posts {"message": "..."} to the same path and shows the plain
// text reply. Replies are inserted as text, never as HTML.
package ui
