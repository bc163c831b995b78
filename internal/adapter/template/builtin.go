package template

import "autoapply/internal/domain"

func text(id, label string, required bool) domain.Field {
	return domain.Field{ID: id, Label: label, InputKind: domain.InputText, Required: required}
}

func prose(id, label string, limit int, unit domain.LengthUnit) domain.Field {
	return domain.Field{ID: id, Label: label, InputKind: domain.InputTextarea, Required: true, MaxLength: limit, LengthUnit: unit}
}

func number(id, label string) domain.Field {
	return domain.Field{ID: id, Label: label, InputKind: domain.InputNumber, Required: true}
}

func upload(id, label string, required bool) domain.Field {
	return domain.Field{ID: id, Label: label, InputKind: domain.InputFile, Required: required}
}

func identityFields() []domain.Field {
	return []domain.Field{
		text("organization_name", "Organization Name", true),
		text("ein", "EIN / Tax ID", true),
		text("address", "Mailing Address", true),
		text("contact_email", "Contact Email", true),
		text("website", "Website", false),
	}
}

func with(base []domain.Field, extra ...domain.Field) []domain.Field {
	out := make([]domain.Field, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

func genericFields() []domain.Field {
	return with(identityFields(),
		prose("project_description", "Project Description", 500, domain.LengthWords),
		number("amount_requested", "Amount Requested"),
	)
}

func builtinTemplates() map[string][]domain.Field {
	sbirBase := with(identityFields(),
		text("uei", "UEI Number", true),
		prose("project_summary", "Project Summary", 1800, domain.LengthChars),
		prose("technical_innovation", "Technical Innovation", 1000, domain.LengthWords),
		prose("key_personnel", "Key Personnel Qualifications", 500, domain.LengthWords),
	)

	return map[string][]domain.Field{
		"sbir_phase_1": with(sbirBase,
			prose("technical_objectives", "Phase I Technical Objectives", 750, domain.LengthWords),
			prose("commercialization", "Commercial Potential", 500, domain.LengthWords),
			number("budget_total", "Total Budget"),
			prose("budget_justification", "Budget Justification", 500, domain.LengthWords),
		),
		"sbir_phase_2": with(sbirBase,
			prose("phase1_results", "Phase I Results", 750, domain.LengthWords),
			prose("technical_objectives", "Phase II Technical Objectives", 1000, domain.LengthWords),
			prose("commercialization_plan", "Commercialization Plan", 1500, domain.LengthWords),
			prose("work_plan", "Work Plan and Milestones", 750, domain.LengthWords),
			number("budget_total", "Total Budget"),
			prose("budget_justification", "Budget Justification", 750, domain.LengthWords),
		),
		"sbir_generic": with(sbirBase,
			prose("commercialization", "Commercialization Plan", 750, domain.LengthWords),
			number("budget_total", "Total Budget"),
		),
		"nsf_standard": with(identityFields(),
			prose("project_summary", "Project Summary", 4600, domain.LengthChars),
			prose("intellectual_merit", "Intellectual Merit and Research Plan", 1000, domain.LengthWords),
			prose("broader_impacts", "Broader Impacts", 750, domain.LengthWords),
			prose("key_personnel", "Senior Personnel Qualifications", 500, domain.LengthWords),
			prose("evaluation_plan", "Evaluation Plan", 500, domain.LengthWords),
			prose("budget_justification", "Budget Justification", 750, domain.LengthWords),
		),
		"nih_research": with(identityFields(),
			prose("specific_aims", "Specific Aims", 500, domain.LengthWords),
			prose("significance", "Significance", 750, domain.LengthWords),
			prose("innovation", "Innovation", 500, domain.LengthWords),
			prose("approach", "Approach", 1500, domain.LengthWords),
			prose("key_personnel", "Biographical Sketch of Key Personnel", 500, domain.LengthWords),
			prose("budget_justification", "Budget Justification", 750, domain.LengthWords),
		),
		"nea_arts": with(identityFields(),
			text("mission", "Mission Statement", true),
			prose("project_description", "Project Description", 3000, domain.LengthChars),
			prose("outcomes", "Intended Outcomes", 1500, domain.LengthChars),
			prose("evaluation_plan", "Evaluation Plan", 1500, domain.LengthChars),
			number("amount_requested", "Amount Requested"),
			upload("work_samples", "Work Samples", false),
		),
		"ed_discretionary": with(identityFields(),
			prose("need_for_project", "Need for the Project", 750, domain.LengthWords),
			prose("project_design", "Quality of the Project Design", 1000, domain.LengthWords),
			prose("project_personnel", "Quality of Project Personnel", 500, domain.LengthWords),
			prose("evaluation_plan", "Quality of the Project Evaluation", 750, domain.LengthWords),
			prose("budget_justification", "Budget Narrative", 750, domain.LengthWords),
		),
		"education": with(identityFields(),
			text("mission", "Mission Statement", true),
			prose("need_statement", "Statement of Need", 500, domain.LengthWords),
			prose("program_design", "Program Description", 750, domain.LengthWords),
			prose("learning_outcomes", "Student Outcomes", 500, domain.LengthWords),
			prose("evaluation_plan", "Evaluation Plan", 500, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"environment": with(identityFields(),
			text("mission", "Mission Statement", true),
			prose("problem_statement", "Environmental Problem Statement", 500, domain.LengthWords),
			prose("approach", "Project Approach", 750, domain.LengthWords),
			prose("impact", "Environmental Impact", 500, domain.LengthWords),
			prose("sustainability", "Sustainability Plan", 400, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"health": with(identityFields(),
			text("mission", "Mission Statement", true),
			prose("need_statement", "Community Health Need", 500, domain.LengthWords),
			prose("intervention", "Intervention Approach", 750, domain.LengthWords),
			prose("outcomes", "Health Outcomes", 500, domain.LengthWords),
			prose("evaluation_plan", "Evaluation and Metrics", 500, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"arts_culture": with(identityFields(),
			text("mission", "Mission Statement", true),
			prose("project_description", "Project Description", 500, domain.LengthWords),
			prose("community_impact", "Community Impact", 400, domain.LengthWords),
			prose("artist_qualifications", "Artist and Staff Qualifications", 400, domain.LengthWords),
			upload("work_samples", "Work Samples", false),
			number("amount_requested", "Amount Requested"),
		),
		"workforce": with(identityFields(),
			prose("need_statement", "Labor Market Need", 500, domain.LengthWords),
			prose("program_design", "Training Program Description", 750, domain.LengthWords),
			prose("outcomes", "Employment Outcomes", 500, domain.LengthWords),
			prose("partners", "Employer Partnerships and Sustainability", 400, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"technology_innovation": with(identityFields(),
			prose("problem_statement", "Problem Statement", 500, domain.LengthWords),
			prose("innovation", "Technical Innovation", 750, domain.LengthWords),
			prose("market", "Market Opportunity", 500, domain.LengthWords),
			prose("team", "Team Qualifications", 400, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"federal": with(identityFields(),
			text("uei", "UEI Number", true),
			prose("project_abstract", "Project Abstract", 250, domain.LengthWords),
			prose("need_statement", "Statement of Need", 750, domain.LengthWords),
			prose("project_narrative", "Project Narrative", 2000, domain.LengthWords),
			prose("evaluation_plan", "Evaluation Plan", 750, domain.LengthWords),
			number("budget_total", "Total Budget"),
			prose("budget_justification", "Budget Justification", 750, domain.LengthWords),
			upload("certifications", "Certifications and Assurances", true),
		),
		"foundation": with(identityFields(),
			text("mission", "Mission Statement", true),
			prose("org_history", "Organizational Background", 400, domain.LengthWords),
			prose("need_statement", "Statement of Need", 500, domain.LengthWords),
			prose("project_description", "Project Description", 750, domain.LengthWords),
			prose("outcomes", "Expected Outcomes", 400, domain.LengthWords),
			prose("sustainability", "Sustainability Plan", 300, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"corporate": with(identityFields(),
			prose("project_summary", "Project Summary", 300, domain.LengthWords),
			prose("community_impact", "Community Impact", 300, domain.LengthWords),
			prose("partnership", "Partnership and Recognition Opportunities", 200, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"state": with(identityFields(),
			text("city", "City", true),
			text("state", "State", true),
			prose("need_statement", "Local Need", 500, domain.LengthWords),
			prose("project_description", "Project Description", 750, domain.LengthWords),
			prose("outcomes", "Measurable Outcomes", 400, domain.LengthWords),
			number("amount_requested", "Amount Requested"),
		),
		"generic": genericFields(),
	}
}
