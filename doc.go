// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jdoc implements a JSON scanner and a grammar-checking token source
// for building in-memory JSON documents.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and reports whether one is available:
//
//	s := jdoc.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns false when the input has been fully consumed or an error has
// occurred. Err reports nil at the end of the input; any other error
// indicates an I/O or lexical error in the input.
//
//	if err := s.Err(); err != nil {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// # Lexing
//
// The Lexer type reads tokens from a Scanner and checks them against the JSON
// grammar. It reports only the tokens that carry structure or data:
//
//	JSON type  | Tokens                    | Text
//	---------- | ------------------------- | ---------------------------------
//	object     | LBrace ... RBrace         | "{", "}"
//	array      | LSquare ... RSquare       | "[", "]"
//	string     | String                    | the decoded string contents
//	number     | Integer, Number           | the number as written
//	constant   | True, False, Null         | the constant as written
//
// Inside an object, each member is reported as a String token for the key
// followed by the tokens of the value. Commas and colons are checked and
// consumed by the lexer. The Lexer reports Invalid at the end of input or
// after an error; errors have concrete type *jdoc.SyntaxError.
//
//	lx := jdoc.NewLexer(input)
//	for tok := lx.Next(); tok != jdoc.Invalid; tok = lx.Next() {
//	   log.Printf("%v %q", tok, lx.Text())
//	}
//	if err := lx.Err(); err != nil {
//	   log.Fatalf("Lexing failed: %v", err)
//	}
//
// A Lexer satisfies the doc.TokenSource interface, so it can be passed to
// doc.Parse to build a document tree.
package jdoc
