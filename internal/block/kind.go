package block

import "brufmt/internal/prettier"

// Kind describes one formattable block of a .bru file.
type Kind struct {
	// Name is the literal block name used in the header line, e.g. "body:json".
	Name string
	// Parser selects the formatter grammar for the body.
	Parser prettier.Parser
	// EscapePlaceholders marks JSON bodies that may carry bare {{var}} values.
	EscapePlaceholders bool
	// ShortenGetters marks script bodies eligible for res.getX() rewriting.
	ShortenGetters bool
}

// Kinds is the processing order of recognized blocks.
var Kinds = []Kind{
	{Name: "body:json", Parser: prettier.ParserJSON, EscapePlaceholders: true},
	{Name: "body:graphql", Parser: prettier.ParserGraphQL},
	{Name: "body:graphql:vars", Parser: prettier.ParserJSON, EscapePlaceholders: true},
	{Name: "script:pre-request", Parser: prettier.ParserBabel, ShortenGetters: true},
	{Name: "script:post-response", Parser: prettier.ParserBabel, ShortenGetters: true},
	{Name: "tests", Parser: prettier.ParserBabel, ShortenGetters: true},
}

func (k Kind) String() string { return k.Name }

func (k Kind) header() string { return k.Name + " {" }
