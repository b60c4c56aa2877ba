// Package webscraper extracts the primary readable content from web pages
// and describes it as a structured document: page metadata, article
// metadata, body content (text, media, links, lists, tables), and context
// about competing content candidates.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, resty/, bolt/).
package webscraper
