// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

// maxPlausibleArea bounds the statistical fallback for area columns (m²).
const maxPlausibleArea = 100000

// RequestFieldSet lists the logical fields of the real-estate requests sheet.
type RequestFieldSet struct {
	Status       FieldSpec
	Verified     FieldSpec
	Completed    FieldSpec
	Offers       FieldSpec
	Views        FieldSpec
	PriceFrom    FieldSpec
	PriceTo      FieldSpec
	Area         FieldSpec
	PropertyType FieldSpec
	City         FieldSpec
	CustomerID   FieldSpec
	CustomerName FieldSpec
	CreatedAt    FieldSpec
}

// All returns every field in resolution order.
func (s RequestFieldSet) All() []FieldSpec {
	return []FieldSpec{
		s.Status, s.Verified, s.Completed, s.Offers, s.Views,
		s.PriceFrom, s.PriceTo, s.Area, s.PropertyType, s.City,
		s.CustomerID, s.CustomerName, s.CreatedAt,
	}
}

// ByName looks up a field by logical name.
func (s RequestFieldSet) ByName(name string) (FieldSpec, bool) {
	for _, f := range s.All() {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RequestFields is the default catalog for the requests sheet. English and
// Arabic header spellings are both listed.
var RequestFields = RequestFieldSet{
	Status: FieldSpec{
		Name:       "status",
		Candidates: []string{"status", "status_ar", "request_status", "الحالة", "حالة_الطلب"},
		Kind:       KindString,
	},
	Verified: FieldSpec{
		Name:       "verified",
		Candidates: []string{"verified", "is_verified", "verification", "موثق", "التوثيق"},
		Kind:       KindString,
	},
	Completed: FieldSpec{
		Name:       "completed",
		Candidates: []string{"completed", "is_completed", "complete", "مكتمل", "الاكتمال"},
		Kind:       KindString,
	},
	Offers: FieldSpec{
		Name:       "offers",
		Candidates: []string{"offers", "offers_count", "offer_count", "number_of_offers", "العروض", "عدد_العروض"},
		Kind:       KindNumber,
	},
	Views: FieldSpec{
		Name:       "views",
		Candidates: []string{"views", "views_count", "view_count", "المشاهدات", "عدد_المشاهدات"},
		Kind:       KindNumber,
	},
	PriceFrom: FieldSpec{
		Name:       "price_from",
		Candidates: []string{"price_from", "min_price", "budget_from", "السعر_من"},
		Kind:       KindNumber,
	},
	PriceTo: FieldSpec{
		Name:       "price_to",
		Candidates: []string{"price_to", "max_price", "budget_to", "السعر_الى", "السعر_إلى"},
		Kind:       KindNumber,
	},
	Area: FieldSpec{
		Name:       "area",
		Candidates: []string{"area", "area_sqm", "space", "المساحة"},
		Kind:       KindNumber,
		Fallback:   true,
		Max:        maxPlausibleArea,
	},
	PropertyType: FieldSpec{
		Name:       "property_type",
		Candidates: []string{"property_type", "type", "نوع_العقار"},
		Kind:       KindString,
	},
	City: FieldSpec{
		Name:       "city",
		Candidates: []string{"city", "المدينة", "location"},
		Kind:       KindString,
	},
	CustomerID: FieldSpec{
		Name:       "customer_id",
		Candidates: []string{"customer_id", "client_id", "user_id", "phone", "رقم_الجوال"},
		Kind:       KindString,
	},
	CustomerName: FieldSpec{
		Name:       "customer_name",
		Candidates: []string{"customer_name", "client_name", "full_name", "الاسم", "اسم_العميل"},
		Kind:       KindString,
	},
	CreatedAt: FieldSpec{
		Name:       "created_at",
		Candidates: []string{"created_at", "request_date", "date", "timestamp", "تاريخ_الطلب"},
		Kind:       KindDate,
	},
}

// InsightFieldSet lists the logical fields of social insight sheets. The
// same catalog covers Instagram insights and LinkedIn post exports.
type InsightFieldSet struct {
	PostID      FieldSpec
	Caption     FieldSpec
	MediaType   FieldSpec
	PostedAt    FieldSpec
	Reach       FieldSpec
	Impressions FieldSpec
	Likes       FieldSpec
	Comments    FieldSpec
	Shares      FieldSpec
	Saves       FieldSpec
	Clicks      FieldSpec
	Followers   FieldSpec
}

// All returns every field in resolution order.
func (s InsightFieldSet) All() []FieldSpec {
	return []FieldSpec{
		s.PostID, s.Caption, s.MediaType, s.PostedAt, s.Reach, s.Impressions,
		s.Likes, s.Comments, s.Shares, s.Saves, s.Clicks, s.Followers,
	}
}

// InsightFields is the default catalog for insight sheets.
var InsightFields = InsightFieldSet{
	PostID:      FieldSpec{Name: "post_id", Candidates: []string{"post_id", "media_id", "permalink", "post_url"}, Kind: KindString},
	Caption:     FieldSpec{Name: "caption", Candidates: []string{"caption", "post_title", "title"}, Kind: KindString},
	MediaType:   FieldSpec{Name: "media_type", Candidates: []string{"media_type", "post_type", "content_type"}, Kind: KindString},
	PostedAt:    FieldSpec{Name: "posted_at", Candidates: []string{"posted_at", "timestamp", "created_date", "date"}, Kind: KindDate},
	Reach:       FieldSpec{Name: "reach", Candidates: []string{"reach", "unique_impressions", "الوصول"}, Kind: KindNumber},
	Impressions: FieldSpec{Name: "impressions", Candidates: []string{"impressions", "مرات_الظهور"}, Kind: KindNumber},
	Likes:       FieldSpec{Name: "likes", Candidates: []string{"likes", "like_count", "reactions"}, Kind: KindNumber},
	Comments:    FieldSpec{Name: "comments", Candidates: []string{"comments", "comments_count"}, Kind: KindNumber},
	Shares:      FieldSpec{Name: "shares", Candidates: []string{"shares", "reposts"}, Kind: KindNumber},
	Saves:       FieldSpec{Name: "saves", Candidates: []string{"saves", "saved"}, Kind: KindNumber},
	Clicks:      FieldSpec{Name: "clicks", Candidates: []string{"clicks", "link_clicks"}, Kind: KindNumber},
	Followers:   FieldSpec{Name: "followers", Candidates: []string{"followers", "follows", "new_followers"}, Kind: KindNumber},
}
