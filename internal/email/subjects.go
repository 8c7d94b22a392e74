package email

const (
	subjectLeadIntakeFmt          = "Lead #%s – %s – %s"
	subjectLeadFinalizedFmt       = "✅ Lead finalisé - %s - %s"
	subjectLeadFinalizedIncomeFmt = "✅ Lead finalisé (Immeuble à revenus) - %s - %s"
)
