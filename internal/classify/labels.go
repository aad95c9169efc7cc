// Package classify maps the catalog's numeric category/kind identifiers and
// slugs to display labels and routing destinations. The tables are
// hand-enumerated against the live data; categories and kinds are two
// independent taxonomies applied to the same entry.
package classify

// UnspecifiedLabel is returned for any id outside the known tables.
const UnspecifiedLabel = "غير محدد"

var categoryNames = map[int]string{
	1:   "الكتب",
	32:  "المخطوطات",
	33:  "التحقيقات",
	34:  "الأخبار",
	99:  "الفوائد",
	100: "أعلام شنقيط",
	109: "التعريف بالمنطقة",
	118: "المؤلفات",
	122: "الفقه المالكي",
	127: "متفرقات",
}

// Slugs match the live API byte-for-byte, including the entries where a
// Latin "a" replaced an Arabic alif; routing keys off the corrupted form,
// so it must not be "fixed" here.
var categorySlugs = map[int]string{
	1:   "الكتب",
	32:  "المخطوطات",
	33:  "التحقيقات",
	34:  "الأخبار",
	99:  "فوaئد",
	100: "أعلaم-شنقيط",
	109: "التعريف-بالمنطقة",
	118: "المؤلفات",
	122: "الفقه-المالكي",
	127: "متفرقات",
}

// Kind ids are a closed, hand-enumerated set.
const (
	KindBook          = 1
	KindNews          = 14
	KindAuthoredWorks = 15
	KindManuscript    = 16
	KindInvestigation = 17
	KindAboutRegion   = 18
)

var kindNames = map[int]string{
	KindBook:          "الكتب",
	KindNews:          "الأخبار",
	KindAuthoredWorks: "المؤلفات",
	KindManuscript:    "المخطوطات",
	KindInvestigation: "التحقيقات",
	KindAboutRegion:   "التعريف بالمنطقة",
}

var kindSlugs = map[int]string{
	KindBook:          "lktb",
	KindNews:          "lakhbar",
	KindAuthoredWorks: "lmwlfat",
	KindManuscript:    "lmkhtott",
	KindInvestigation: "lthkykat",
	KindAboutRegion:   "ltryf-blmntkh",
}

func CategoryName(id int) string {
	if name, ok := categoryNames[id]; ok {
		return name
	}
	return UnspecifiedLabel
}

func CategorySlug(id int) string {
	return categorySlugs[id]
}

func KindName(id int) string {
	if name, ok := kindNames[id]; ok {
		return name
	}
	return UnspecifiedLabel
}

func KindSlug(id int) string {
	return kindSlugs[id]
}

// KindBySlug resolves a kind slug back to its id; 0 means unknown.
func KindBySlug(slug string) int {
	for id, s := range kindSlugs {
		if s == slug {
			return id
		}
	}
	return 0
}

// CategoryBySlug resolves a category slug or display name to its id;
// 0 means unknown. Matching is byte-exact, so the corrupted slugs resolve
// only in their corrupted form.
func CategoryBySlug(v string) int {
	for id, s := range categorySlugs {
		if s == v {
			return id
		}
	}
	for id, name := range categoryNames {
		if name == v {
			return id
		}
	}
	return 0
}
