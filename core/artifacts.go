package core

// SeedArtifacts returns the catalog records a fresh installation starts with.
// A new slice is returned on every call.
func SeedArtifacts() []*Artifact {
	return []*Artifact{
		{
			ID:          1,
			Title:       "Lakhe Mask",
			Language:    "Newari",
			Description: "The Lakhe mask is a sacred artifact of the Newar community, representing the protective demon deity who dances through the streets of Kathmandu during Indra Jatra festival. This fierce-faced guardian with his third eye and golden ornaments wards off evil spirits while blessing the community with prosperity. The mask embodies centuries of Newari craftsmanship, where each carved detail tells stories of divine protection and cultural resilience passed down through generations of master artisans.",
			Keywords:    []string{"protection", "ceremony", "festival", "mask", "spirit", "newar", "kathmandu", "indra jatra", "guardian", "deity"},
		},
		{
			ID:          2,
			Title:       "Damphu Drum",
			Language:    "Tamang",
			Description: "The Damphu drum resonates with the heartbeat of Tamang culture, its rhythmic beats echoing through the Himalayan foothills where this indigenous community has lived for millennia. Crafted from wood and animal skin, this circular frame drum accompanies the Tamang Selo dance and preserves ancient stories of mountain life, Buddhist traditions, and the community's deep connection to the land. Each beat carries the wisdom of ancestors who used these rhythms to celebrate harvests, mark life passages, and maintain their unique linguistic and cultural identity.",
			Keywords:    []string{"music", "celebration", "drum", "culture", "storytelling", "tamang", "himalayan", "selo", "indigenous", "rhythm"},
		},
		{
			ID:          3,
			Title:       "Tharu Wall Art",
			Language:    "Tharu",
			Description: "Tharu wall paintings transform simple mud walls into vibrant canvases that tell the story of Nepal's first inhabitants, the Tharu people who have lived in the Terai forests for thousands of years. These earth-toned murals depict the sacred relationship between humans, nature, and the spiritual world - showing rice fields that sustain life, peacocks that bring good fortune, fish that represent abundance, and the sun that governs agricultural cycles. Each brushstroke preserves ancient knowledge of sustainable living and the Tharu community's role as guardians of the southern plains, where their unique language and customs have flourished despite centuries of change.",
			Keywords:    []string{"art", "nature", "harvest", "village", "painting", "tharu", "terai", "agriculture", "indigenous", "sustainable"},
		},
	}
}
