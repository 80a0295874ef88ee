// Package binding turns a flat stream of C declarations into the model a
// C++ wrapper header is rendered from.
//
// Declarations are first normalized into raw records (Normalize). Function
// pointer typedefs that end in a closure parameter become callback
// descriptors. Opaque typedefs with a matching destroy function are promoted
// to classes, and every function is attached either to the first class whose
// type name prefixes it or to its namespace as a free function. Method
// parameters are classified into exactly one Role each.
//
// All naming rules come from a NamingConvention; DefaultConvention matches
// the NATS C client.
package binding
