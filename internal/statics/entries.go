package statics

import "chinguetti/pkg/models"

// Sample entries shown when the live API is down. Each carries category as a
// full reference and a synthesized entry_type tag, so cards render exactly
// as they would from live data.

var SampleManuscripts = []models.Entry{
	{
		ID:          9001,
		Title:       "نظم في رسم القرآن",
		Author:      "محمد بن أحمد الشنقيطي",
		Description: "مخطوطة نادرة في علم رسم المصحف من مكتبات شنقيط العتيقة",
		Language:    "العربية",
		Category:    models.Ref{ID: 32, Name: "المخطوطات", Slug: "المخطوطات"},
		Kind:        16,
		Pages:       84,
		Size:        "21×15 سم",
		Date:        "القرن الثاني عشر الهجري",
		Published:   true,
		EntryType:   models.EntryTypeManuscript,
	},
	{
		ID:          9002,
		Title:       "شرح مختصر خليل",
		Author:      "أحمد بن العاقل الودادي",
		Description: "مخطوط في الفقه المالكي على مختصر خليل بن إسحاق",
		Language:    "العربية",
		Category:    models.Ref{ID: 122, Name: "الفقه المالكي", Slug: "الفقه-المالكي"},
		Kind:        16,
		Pages:       312,
		Size:        "24×17 سم",
		Date:        "1243هـ",
		Published:   true,
		EntryType:   models.EntryTypeManuscript,
	},
	{
		ID:          9003,
		Title:       "طرة على ألفية ابن مالك",
		Author:      "المختار بن بونه الجكني",
		Description: "حاشية نحوية من تآليف علماء المحاظر الموريتانية",
		Language:    "العربية",
		Category:    models.Ref{ID: 32, Name: "المخطوطات", Slug: "المخطوطات"},
		Subcategory: models.Ref{ID: 36, Name: "مخطوطات اللغة", Slug: "مخطوطات-اللغة"},
		Kind:        16,
		Pages:       156,
		Date:        "القرن الثالث عشر الهجري",
		Published:   true,
		EntryType:   models.EntryTypeManuscript,
	},
	{
		ID:          9004,
		Title:       "نوازل أهل شنقيط",
		Author:      "سيدي عبد الله بن الحاج إبراهيم",
		Description: "مجموع فتاوى ونوازل فقهية من البلاد الشنقيطية",
		Language:    "العربية",
		Category:    models.Ref{ID: 32, Name: "المخطوطات", Slug: "المخطوطات"},
		Subcategory: models.Ref{ID: 35, Name: "مخطوطات الفقه", Slug: "مخطوطات-الفقه"},
		Kind:        16,
		Pages:       201,
		Published:   true,
		EntryType:   models.EntryTypeManuscript,
	},
}

var SampleBooks = []models.Entry{
	{
		ID:          9101,
		Title:       "الوسيط في تراجم أدباء شنقيط",
		Author:      "أحمد بن الأمين الشنقيطي",
		Description: "أشهر كتب التراجم عن أدباء وعلماء بلاد شنقيط",
		Language:    "العربية",
		Category:    models.Ref{ID: 1, Name: "الكتب", Slug: "الكتب"},
		Kind:        1,
		PageCount:   624,
		Date:        "1911م",
		Published:   true,
		EntryType:   models.EntryTypeBook,
	},
	{
		ID:          9102,
		Title:       "بلاد شنقيط: المنارة والرباط",
		Author:      "الخليل النحوي",
		Description: "دراسة تاريخية عن الحياة العلمية في موريتانيا ومحاظرها",
		Language:    "العربية",
		Category:    models.Ref{ID: 1, Name: "الكتب", Slug: "الكتب"},
		Subcategory: models.Ref{ID: 3, Name: "كتب التاريخ", Slug: "كتب-التاريخ"},
		Kind:        1,
		PageCount:   540,
		Date:        "1987م",
		Published:   true,
		EntryType:   models.EntryTypeBook,
	},
	{
		ID:          9103,
		Title:       "مراقي السعود إلى مراقي السعود",
		Author:      "محمد الأمين الجكني الشنقيطي",
		Description: "شرح منظومة مراقي السعود في أصول الفقه المالكي",
		Language:    "العربية",
		Category:    models.Ref{ID: 122, Name: "الفقه المالكي", Slug: "الفقه-المالكي"},
		Kind:        1,
		PageCount:   448,
		Published:   true,
		EntryType:   models.EntryTypeBook,
	},
	{
		ID:          9104,
		Title:       "أضواء البيان في إيضاح القرآن بالقرآن",
		Author:      "محمد الأمين الشنقيطي",
		Description: "موسوعة تفسير القرآن بالقرآن لعلامة شنقيط",
		Language:    "العربية",
		Category:    models.Ref{ID: 1, Name: "الكتب", Slug: "الكتب"},
		Kind:        1,
		PageCount:   4000,
		Published:   true,
		EntryType:   models.EntryTypeBook,
	},
}

var SampleInvestigations = []models.Entry{
	{
		ID:          9201,
		Title:       "تحقيق نظم عمود النسب",
		Author:      "لجنة تحقيق التراث الشنقيطي",
		Description: "تحقيق علمي لمنظومة الأنساب الشهيرة للبدوي المجلسي",
		Language:    "العربية",
		Category:    models.Ref{ID: 33, Name: "التحقيقات", Slug: "التحقيقات"},
		Kind:        17,
		Pages:       288,
		Published:   true,
		EntryType:   models.EntryTypeInvestigation,
	},
	{
		ID:          9202,
		Title:       "تحقيق طرة ابن بونه على خليل",
		Author:      "محمد فال بن عبد اللطيف",
		Description: "تحقيق حاشية في الفقه المالكي من تراث المحاظر",
		Language:    "العربية",
		Category:    models.Ref{ID: 33, Name: "التحقيقات", Slug: "التحقيقات"},
		Kind:        17,
		Pages:       376,
		Published:   true,
		EntryType:   models.EntryTypeInvestigation,
	},
	{
		ID:          9203,
		Title:       "تحقيق ديوان ولد أحمدو",
		Author:      "المعهد الموريتاني للبحث العلمي",
		Description: "تحقيق ديوان شعري من الأدب الشنقيطي القديم",
		Language:    "العربية",
		Category:    models.Ref{ID: 33, Name: "التحقيقات", Slug: "التحقيقات"},
		Kind:        17,
		Pages:       192,
		Published:   true,
		EntryType:   models.EntryTypeInvestigation,
	},
}

// AllEntries returns every bundled sample entry in one slice.
func AllEntries() []models.Entry {
	out := make([]models.Entry, 0, len(SampleManuscripts)+len(SampleBooks)+len(SampleInvestigations))
	out = append(out, SampleManuscripts...)
	out = append(out, SampleBooks...)
	out = append(out, SampleInvestigations...)
	return out
}

// EntryByID looks an entry up in the bundled samples.
func EntryByID(id int) *models.Entry {
	for _, e := range AllEntries() {
		if e.ID == id {
			return &e
		}
	}
	return nil
}
