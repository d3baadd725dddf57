package dialog

import "github.com/Ferpoks/telegram-cv-bot/internal/resume"

type texts struct {
	Welcome        string
	Help           string
	UpgradeHint    string
	UpgradeMissing string
	ChooseLang     string
	ChooseTemplate string
	TemplateSet    string
	AskName        string
	AskTitle       string
	AskPhone       string
	AskEmail       string
	AskCity        string
	AskLinks       string
	AskSummary     string
	MenuTitle      string
	BtnAddExp      string
	BtnAddEdu      string
	BtnSkills      string
	BtnTemplate    string
	BtnExport      string
	BtnPreview     string
	BtnPreviewAll  string
	BtnDocx        string
	BtnPDF         string
	BtnCover       string
	BtnUpgrade     string
	AskExpRole     string
	AskExpCompany  string
	AskExpStart    string
	AskExpEnd      string
	AskExpBullets  string
	ExpAdded       string
	AskEduDegree   string
	AskEduMajor    string
	AskEduSchool   string
	AskEduYear     string
	EduAdded       string
	AskSkills      string
	SkillsSet      string
	ChooseExport   string
	PreviewWorking string
	PreviewCaption string
	PreviewPDFNote string
	PreviewFailed  string
	ExportWorking  string
	ExportDone     string
	ExportDegraded string
	QuotaExhausted string
	VIPOnly        string
	RecordNotFound string
	GenericError   string
	Reprompt       string
	CoverCaption   string
}

var promptSets = map[resume.Lang]texts{
	resume.LangArabic: {
		Welcome:        "أهلًا! هذا بوت إنشاء سيرة (HTML/CSS + PDF احترافي).\nأرسل /cv للبدء.",
		Help:           "/cv للبدء • /upgrade للترقية",
		UpgradeHint:    "للترقية إلى VIP: ",
		UpgradeMissing: "رابط الترقية غير مضبوط حاليًا.",
		ChooseLang:     "اختر لغة السيرة:",
		ChooseTemplate: "اختر القالب:",
		TemplateSet:    "تم اختيار قالب: ",
		AskName:        "أرسل اسمك الكامل:",
		AskTitle:       "المسمى الوظيفي المستهدف:",
		AskPhone:       "رقم الجوال:",
		AskEmail:       "البريد الإلكتروني:",
		AskCity:        "المدينة:",
		AskLinks:       "روابطك (LinkedIn/GitHub) مفصولة بفواصل أو اكتب - لا يوجد -:",
		AskSummary:     "اكتب ملخصًا قصيرًا (3-4 أسطر):",
		MenuTitle:      "القائمة الرئيسية:\n• إضافة خبرة\n• إضافة تعليم\n• تعيين المهارات\n• معاينة/تصدير",
		BtnAddExp:      "➕ إضافة خبرة",
		BtnAddEdu:      "🎓 إضافة تعليم",
		BtnSkills:      "🧩 تعيين المهارات",
		BtnTemplate:    "🎨 تغيير القالب",
		BtnExport:      "📤 معاينة/تصدير",
		BtnPreview:     "👀 معاينة (صورة)",
		BtnPreviewAll:  "👀 معاينة كل القوالب",
		BtnDocx:        "📄 تصدير DOCX",
		BtnPDF:         "🧾 تصدير PDF (عالي الجودة)",
		BtnCover:       "✉️ Cover Letter",
		BtnUpgrade:     "⭐ ترقية إلى VIP",
		AskExpRole:     "المسمى الوظيفي (Role):",
		AskExpCompany:  "اسم الشركة:",
		AskExpStart:    "تاريخ البدء (مثال 01/2023):",
		AskExpEnd:      "تاريخ الانتهاء (أو اكتب Present):",
		AskExpBullets:  "أرسل نقاط الإنجاز (كل سطر نقطة، رسالة واحدة):",
		ExpAdded:       "تمت إضافة الخبرة.",
		AskEduDegree:   "الدرجة العلمية:",
		AskEduMajor:    "التخصص:",
		AskEduSchool:   "اسم الجامعة/المعهد:",
		AskEduYear:     "سنة التخرج:",
		EduAdded:       "تمت إضافة التعليم.",
		AskSkills:      "أرسل المهارات مفصولة بفواصل:",
		SkillsSet:      "تم تعيين المهارات.",
		ChooseExport:   "اختر طريقة التصدير / المعاينة:",
		PreviewWorking: "جارٍ إنشاء معاينة…",
		PreviewCaption: "هذه المعاينة. إذا مناسب اختر PDF أو DOCX.",
		PreviewPDFNote: "معاينة PDF",
		PreviewFailed:  "تعذّرت المعاينة، حاول لاحقًا.",
		ExportWorking:  "جارٍ إنشاء الملف…",
		ExportDone:     "تم إنشاء السيرة ✨",
		ExportDegraded: "تعذّر توليد PDF، أرسلنا DOCX بدلًا منه.",
		QuotaExhausted: "استخدمت محاولتك المجانية. رجاءً قم بالترقية إلى VIP.",
		VIPOnly:        "هذه الميزة لعملاء VIP فقط.",
		RecordNotFound: "لم يتم العثور على السيرة، أرسل /cv للبدء من جديد.",
		GenericError:   "حدث خطأ، حاول مرة أخرى.",
		Reprompt:       "رجاءً استخدم الأزرار أو أرسل /cv للبدء.",
		CoverCaption:   "Cover Letter",
	},
	resume.LangEnglish: {
		Welcome:        "Welcome! This bot builds a polished CV (HTML/CSS + PDF).\nSend /cv to begin.",
		Help:           "/cv to start • /upgrade for VIP",
		UpgradeHint:    "Upgrade to VIP: ",
		UpgradeMissing: "The upgrade link is not configured yet.",
		ChooseLang:     "Choose your CV language:",
		ChooseTemplate: "Choose a template:",
		TemplateSet:    "Template selected: ",
		AskName:        "Send your full name:",
		AskTitle:       "Target job title:",
		AskPhone:       "Phone number:",
		AskEmail:       "Email address:",
		AskCity:        "City:",
		AskLinks:       "Your links (LinkedIn/GitHub), comma separated, or send -:",
		AskSummary:     "Write a short summary (3-4 lines):",
		MenuTitle:      "Main menu:\n• Add experience\n• Add education\n• Set skills\n• Preview/export",
		BtnAddExp:      "➕ Add experience",
		BtnAddEdu:      "🎓 Add education",
		BtnSkills:      "🧩 Set skills",
		BtnTemplate:    "🎨 Change template",
		BtnExport:      "📤 Preview/export",
		BtnPreview:     "👀 Preview (image)",
		BtnPreviewAll:  "👀 Preview all templates",
		BtnDocx:        "📄 Export DOCX",
		BtnPDF:         "🧾 Export PDF (high quality)",
		BtnCover:       "✉️ Cover Letter",
		BtnUpgrade:     "⭐ Upgrade to VIP",
		AskExpRole:     "Role title:",
		AskExpCompany:  "Company name:",
		AskExpStart:    "Start date (e.g. 01/2023):",
		AskExpEnd:      "End date (or Present):",
		AskExpBullets:  "Send achievement bullets (one per line, single message):",
		ExpAdded:       "Experience added.",
		AskEduDegree:   "Degree:",
		AskEduMajor:    "Major:",
		AskEduSchool:   "University/institute:",
		AskEduYear:     "Graduation year:",
		EduAdded:       "Education added.",
		AskSkills:      "Send your skills, comma separated:",
		SkillsSet:      "Skills saved.",
		ChooseExport:   "Choose export / preview:",
		PreviewWorking: "Generating preview…",
		PreviewCaption: "Here is the preview. If it looks good, pick PDF or DOCX.",
		PreviewPDFNote: "PDF preview",
		PreviewFailed:  "Preview failed, try again later.",
		ExportWorking:  "Generating your file…",
		ExportDone:     "Your CV is ready ✨",
		ExportDegraded: "PDF generation failed, sent DOCX instead.",
		QuotaExhausted: "You used your free export. Please upgrade to VIP.",
		VIPOnly:        "This feature is VIP only.",
		RecordNotFound: "CV not found, send /cv to start over.",
		GenericError:   "Something went wrong, please retry.",
		Reprompt:       "Please use the buttons, or send /cv to start.",
		CoverCaption:   "Cover Letter",
	},
}

// T returns the prompt set for lang, defaulting to Arabic.
func T(lang resume.Lang) texts {
	if t, ok := promptSets[lang]; ok {
		return t
	}
	return promptSets[resume.LangArabic]
}
