// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the embedding abstractions used by heritage search.
//
// # Provider Families
//
// Exactly one provider family is active at a time, chosen by Config:
//
//   - Alternate ("aimlapi"): a single request to an OpenAI-compatible
//     embeddings endpoint. Any failure means no vector.
//   - Primary (Gemini): the primary model, then exactly one retry with the
//     secondary model when the first call fails or returns no vector.
//   - None: no key configured, no network call.
//
// A Selector holds the active family as an ordered chain of Embedder
// values and exposes two entry points. Embed returns errors and is used by
// the seeder. EmbedQuery never fails and is used by the search resolver,
// where a missing vector only means the next strategy runs.
//
// # Implementation Packages
//
//   - ai/openai: alternate family via langchaingo's OpenAI client
//   - ai/googleai: primary family via langchaingo's Google AI client
//   - ai/mock: test doubles
//
// Public constructors in the implementation packages return ai.Embedder.
// mock.NewMockEmbedder returns the concrete type so tests can inject
// behaviour and read call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithGeminiAPIKey(key))
//	primary, secondary, err := googleai.NewEmbedders(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	selector := ai.NewSelector(cfg.Provider, primary, secondary)
//	defer selector.Close()
//
//	embedding, ok := selector.EmbedQuery(ctx, "festival mask")
package ai
