// Package format names the text formats a save document can be converted to.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	if err != nil {
//		return err
//	}
//	name := "save" + f.Suffix()
//
// # Related Packages
//
//   - github.com/signadot/gvas-format/encode - Encode documents as text
//   - github.com/signadot/gvas-format/parse - Parse text into documents
package format
