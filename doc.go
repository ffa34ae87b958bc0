// Package dataobj fills strongly typed structs from untyped input mappings
// (decoded JSON, YAML or any map[string]any) using declarative struct tags.
//
// A fill runs a fixed pipeline:
//
//   - snapshot the input and run the optional BeforeFill hook
//   - validate the whole mapping once against every field's rules
//   - for each field in declaration order: resolve its input key, run the
//     transformer chain, cast to the declared type and assign it, falling
//     back to defaults, null or the strict policy when the key is absent
//   - run AfterFill, then Compute when the type declares computed fields
//
// Field behavior is declared with tags:
//
//	type User struct {
//		dataobj.Base
//		Name   string    `json:"name" rules:"required|max:50" transform:"upper"`
//		Email  string    `dataobj:"from=email_address" rules:"required|email"`
//		Title  string    `oneof:"title,headline" oneofdefault:"Untitled"`
//		Admin  bool      `transform:"boolean"`
//		Tags   []Tag     `json:"tags"`
//		Born   time.Time `json:"born"`
//		Age    int       `dataobj:"computed"`
//	}
//
//	func (u *User) Compute() error { u.Age = yearsSince(u.Born); return nil }
//
//	u, err := dataobj.From[User](ctx, input)
//
// Design policy:
//   - Keep only public APIs in the root package; put detailed implementations under internal/.
//   - Field descriptors live in schema/, transformers in transform/, the
//     default rule engine in rules/, message catalogs in i18n/ and the CLI
//     under cmd/dataobj.
//   - Prefer black-box testing against public APIs.
package dataobj
