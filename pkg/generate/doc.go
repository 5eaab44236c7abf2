// Package generate turns natural-language prompts into candidate layouts
// using a local Ollama model.
//
// [Client] sends the prompt to Ollama's chat endpoint together with the
// canvas dimensions and each component type's nominal size, so the model can
// stack fields in a single column without overlap. The reply is decoded from
//
//	{"template_layout": [{"field_type": "...", "position": {"x": 0, "y": 0}, "props": {}}]}
//
// into [canvas.Item] values with fresh IDs. A reply that cannot be decoded
// yields an empty layout. Items are not checked against the catalog here;
// the session controller drops unknown types.
//
// [Cached] wraps a Client with a [cache.Cache] keyed by model, normalized
// prompt and canvas context. Every hit is issued new item IDs so two
// generations never share identifiers.
//
// Both types satisfy session.Generator.
package generate
