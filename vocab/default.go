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

package vocab

// defaultEntries is the curated vibe vocabulary. Descriptions are full
// sentences so the embedding carries more signal than the bare label.
var defaultEntries = []Entry{
	// Atmosphere
	{Label: "Chill", Category: "Atmosphere", Description: "A chill, relaxed, laid-back atmosphere where you can unwind and decompress"},
	{Label: "Lively", Category: "Atmosphere", Description: "A lively, energetic, vibrant atmosphere with excitement, buzz, and fun"},
	{Label: "Peaceful", Category: "Atmosphere", Description: "A peaceful, calm, tranquil, serene setting for quiet relaxation"},
	{Label: "Fun", Category: "Atmosphere", Description: "A fun, playful, entertaining, enjoyable experience with laughter and good times"},
	{Label: "Romantic", Category: "Atmosphere", Description: "A romantic, intimate, cozy atmosphere perfect for couples and date nights"},
	{Label: "Cozy", Category: "Atmosphere", Description: "A cozy, warm, intimate, homey space that feels comfortable and welcoming"},
	{Label: "Happy", Category: "Atmosphere", Description: "A happy, cheerful, joyful atmosphere that lifts your spirits"},
	{Label: "Relaxed", Category: "Atmosphere", Description: "A relaxed, easy-going, stress-free environment to decompress"},
	{Label: "Buzzy", Category: "Atmosphere", Description: "A buzzy, happening, popular spot with social energy and excitement"},
	{Label: "Quiet", Category: "Atmosphere", Description: "A quiet, peaceful, calm place away from noise and crowds"},
	{Label: "Warm", Category: "Atmosphere", Description: "A warm, welcoming, friendly atmosphere that feels like home"},
	{Label: "Festive", Category: "Atmosphere", Description: "A festive, celebratory, party atmosphere with joy and entertainment"},
	{Label: "Moody", Category: "Atmosphere", Description: "A moody, atmospheric, dimly-lit space with ambiance and character"},

	// Style
	{Label: "Trendy", Category: "Style", Description: "A trendy, fashionable, hip, Instagram-worthy spot that is currently popular"},
	{Label: "Cool", Category: "Style", Description: "A cool, stylish, edgy place with a modern, alternative vibe"},
	{Label: "Funky", Category: "Style", Description: "A funky, quirky, eclectic, unique space with personality and character"},
	{Label: "Old-school", Category: "Style", Description: "An old-school, classic, nostalgic, retro establishment with vintage charm"},
	{Label: "Modern", Category: "Style", Description: "A modern, contemporary, minimalist, sleek design aesthetic"},
	{Label: "Rustic", Category: "Style", Description: "A rustic, farmhouse, natural, earthy aesthetic with raw materials"},
	{Label: "Boho", Category: "Style", Description: "A bohemian, artsy, free-spirited, eclectic style with creative flair"},
	{Label: "Classy", Category: "Style", Description: "A classy, elegant, sophisticated, upscale, refined atmosphere"},
	{Label: "Handmade", Category: "Style", Description: "Handmade, artisanal, craft, small-batch products with care and quality"},
	{Label: "Simple", Category: "Style", Description: "A simple, unpretentious, no-frills, straightforward experience"},
	{Label: "Mixed", Category: "Style", Description: "A mixed, diverse, eclectic blend of styles and influences"},
	{Label: "Retro", Category: "Style", Description: "A retro, vintage, nostalgic, throwback style from past decades"},
	{Label: "Stylish", Category: "Style", Description: "A stylish, fashionable, well-designed, aesthetically pleasing space"},

	// Experience
	{Label: "Adventure", Category: "Experience", Description: "An adventurous, thrilling, exciting experience with adrenaline and discovery"},
	{Label: "Exciting", Category: "Experience", Description: "An exciting, thrilling, exhilarating experience that gets your heart pumping"},
	{Label: "Secret", Category: "Experience", Description: "A secret, hidden, underground, exclusive spot that few people know about"},
	{Label: "Hidden", Category: "Experience", Description: "A hidden gem, off-the-beaten-path, tucked away, hard to find location"},
	{Label: "Famous", Category: "Experience", Description: "A famous, well-known, iconic, popular tourist destination"},
	{Label: "Real", Category: "Experience", Description: "An authentic, genuine, real, honest experience without pretense"},
	{Label: "Local", Category: "Experience", Description: "A local favorite, neighborhood spot, authentic to the community"},
	{Label: "Unique", Category: "Experience", Description: "A unique, one-of-a-kind, special, unlike anywhere else experience"},
	{Label: "VIP", Category: "Experience", Description: "A VIP, exclusive, premium, luxury experience for special occasions"},
	{Label: "Deep", Category: "Experience", Description: "A deep, meaningful, profound, thought-provoking experience"},
	{Label: "Interactive", Category: "Experience", Description: "An interactive, hands-on, participatory, engaging experience"},
	{Label: "Inspiring", Category: "Experience", Description: "An inspiring, motivating, uplifting, creative experience"},
	{Label: "Soulful", Category: "Experience", Description: "A soulful, heartfelt, emotional, moving, spiritual experience"},
	{Label: "Genuine", Category: "Experience", Description: "A genuine, authentic, sincere, honest atmosphere"},

	// Setting
	{Label: "Scenic", Category: "Setting", Description: "A scenic location with beautiful views, panoramic vistas, and stunning scenery"},
	{Label: "Big-views", Category: "Setting", Description: "Big views, panoramic vistas, stunning scenery, breathtaking landscapes"},
	{Label: "Coastal", Category: "Setting", Description: "A coastal, oceanside, beachfront, seaside location by the water"},
	{Label: "City", Category: "Setting", Description: "An urban, city center, downtown, metropolitan location"},
	{Label: "Nature", Category: "Setting", Description: "A nature setting, outdoors, natural environment, green spaces"},
	{Label: "Forest", Category: "Setting", Description: "A forest, woodland, tree-covered, shady natural setting"},
	{Label: "Sunset", Category: "Setting", Description: "A sunset spot, golden hour views, evening ambiance, dusk"},
	{Label: "Vineyard", Category: "Setting", Description: "A vineyard, wine estate, winelands, grape-growing region"},
	{Label: "Waterfront", Category: "Setting", Description: "A waterfront location, harbor, marina, water views"},
	{Label: "Mountain", Category: "Setting", Description: "A mountain setting, highland, elevated, scenic peaks"},
	{Label: "Garden", Category: "Setting", Description: "A garden setting, outdoor greenery, plants, natural beauty"},
	{Label: "Rooftop", Category: "Setting", Description: "A rooftop venue, elevated, city views from above, open air"},
	{Label: "Beach", Category: "Setting", Description: "A beach location, sandy shores, ocean waves, coastal"},
	{Label: "Country", Category: "Setting", Description: "A countryside, rural, farm, pastoral, away from the city"},

	// Social
	{Label: "Social", Category: "Social", Description: "A social, communal, gathering spot good for meeting people"},
	{Label: "Family", Category: "Social", Description: "A family-friendly, kid-safe, all-ages, wholesome environment"},
	{Label: "Casual", Category: "Social", Description: "A casual, informal, relaxed, no-dress-code atmosphere"},
	{Label: "Friendly", Category: "Social", Description: "A friendly, welcoming, warm, hospitable environment"},
	{Label: "Welcoming", Category: "Social", Description: "A welcoming, inclusive, open, accepting atmosphere"},
	{Label: "Community", Category: "Social", Description: "A community hub, neighborhood gathering, local meeting spot"},

	// Food & Drink
	{Label: "Tasty", Category: "Food & Drink", Description: "Tasty, delicious, flavorful, yummy food that satisfies"},
	{Label: "Healthy", Category: "Food & Drink", Description: "Healthy, nutritious, wholesome, fresh, good-for-you options"},
	{Label: "Treat", Category: "Food & Drink", Description: "A treat, indulgence, guilty pleasure, special occasion food"},
	{Label: "Craft-Beer", Category: "Food & Drink", Description: "Craft beer, microbrewery, artisanal brews, beer tasting"},
	{Label: "Wine", Category: "Food & Drink", Description: "Wine, wine tasting, vineyards, sommelier, grape varietals"},
	{Label: "Foodie", Category: "Food & Drink", Description: "A foodie destination, gourmet, culinary excellence, gastronomic"},
	{Label: "Street-food", Category: "Food & Drink", Description: "Street food, casual eats, quick bites, local flavors"},
	{Label: "Fresh", Category: "Food & Drink", Description: "Fresh ingredients, farm-to-table, seasonal, just-made"},

	// Cultural
	{Label: "Artsy", Category: "Cultural", Description: "An artsy, artistic, creative, gallery, design-focused space"},
	{Label: "Music", Category: "Cultural", Description: "A music venue, live performances, concerts, musical atmosphere"},
	{Label: "History", Category: "Cultural", Description: "A historical site, heritage, past stories, cultural significance"},
	{Label: "Culture", Category: "Cultural", Description: "A cultural experience, traditions, heritage, local customs"},
	{Label: "Learning", Category: "Cultural", Description: "An educational, learning, informative, knowledge experience"},
	{Label: "Heritage", Category: "Cultural", Description: "A heritage site, historical significance, preserved traditions"},

	// Activity
	{Label: "Active", Category: "Activity", Description: "An active, physical, sporty, energetic, exercise experience"},
	{Label: "Playful", Category: "Activity", Description: "A playful, fun, games, entertainment, light-hearted experience"},
	{Label: "Creative", Category: "Activity", Description: "A creative, artistic, DIY, hands-on, making experience"},
	{Label: "Wellness", Category: "Activity", Description: "A wellness, health, spa, relaxation, self-care experience"},
	{Label: "Extreme", Category: "Activity", Description: "An extreme, adrenaline, thrill-seeking, intense, adventure sport"},

	// Specifics
	{Label: "Comfort", Category: "Specifics", Description: "Comfort food, home-style cooking, satisfying, hearty meals"},
	{Label: "Tasting", Category: "Specifics", Description: "A tasting experience, sampling, flights, variety to try"},
	{Label: "Dive-bar", Category: "Specifics", Description: "A dive bar, grungy, no-frills, authentic, unpretentious bar"},
	{Label: "Sea-life", Category: "Specifics", Description: "Sea life, marine animals, ocean creatures, underwater world"},
	{Label: "Picnic", Category: "Specifics", Description: "A picnic spot, outdoor dining, blanket and basket, al fresco"},
	{Label: "Must-see", Category: "Specifics", Description: "A must-see, essential, bucket-list, cannot-miss attraction"},
	{Label: "Landmark", Category: "Specifics", Description: "A landmark, iconic, famous, recognizable, tourist attraction"},
	{Label: "Photo-ready", Category: "Specifics", Description: "Photo-ready, Instagrammable, picture-perfect, photogenic"},
	{Label: "Minimal", Category: "Specifics", Description: "A minimal, simple, clean, uncluttered, Zen aesthetic"},
	{Label: "Good-value", Category: "Specifics", Description: "Good value, affordable, budget-friendly, worth the money"},
	{Label: "Private", Category: "Specifics", Description: "A private, exclusive, intimate, secluded setting"},
	{Label: "Boutique", Category: "Specifics", Description: "A boutique, small-scale, curated, specialty experience"},
	{Label: "Neighborhood", Category: "Specifics", Description: "A neighborhood spot, local haunt, community favorite"},
	{Label: "Kasi-vibe", Category: "Specifics", Description: "Kasi vibe, township energy, authentic South African culture"},
	{Label: "Roots", Category: "Specifics", Description: "Roots, traditional, heritage, authentic cultural origins"},
	{Label: "Home-grown", Category: "Specifics", Description: "Home-grown, local, made here, community-supported"},
	{Label: "Secret-spot", Category: "Specifics", Description: "A secret spot, hidden gem, only locals know, tucked away"},
	{Label: "No-signage", Category: "Specifics", Description: "No signage, unmarked, speakeasy-style, hard to find entrance"},
	{Label: "Locals-only", Category: "Specifics", Description: "Locals only, off-tourist-trail, authentic, neighborhood secret"},
}
