package domain

// Capability is a stable permission name checked against a role's set.
// Names are independent of route paths and UI labels: adding a new guarded
// action means adding a constant and a table row, never touching call sites.
type Capability string

const (
	CapManageUsers    Capability = "manage_users"
	CapCreateDistrict Capability = "create_district"
	CapEditDistrict   Capability = "edit_district"
	CapViewDistricts  Capability = "view_districts"
	CapCreateProject  Capability = "create_project"
	CapEditProject    Capability = "edit_project"
	CapApproveProject Capability = "approve_project"
	CapDeleteProject  Capability = "delete_project"
	CapViewProjects   Capability = "view_projects"
	CapManageSections Capability = "manage_sections"
	CapSubmitReport   Capability = "submit_report"
	CapViewReports    Capability = "view_reports"
	CapUploadDocument Capability = "upload_document"
	CapDeleteDocument Capability = "delete_document"
	CapViewDocuments  Capability = "view_documents"
)

// permissions is the full role→capability table. The director set is spelled
// out capability by capability — there is no implicit admin bypass.
var permissions = map[Role]map[Capability]struct{}{
	RoleDirector: capSet(
		CapManageUsers,
		CapCreateDistrict, CapEditDistrict, CapViewDistricts,
		CapCreateProject, CapEditProject, CapApproveProject, CapDeleteProject, CapViewProjects,
		CapManageSections,
		CapSubmitReport, CapViewReports,
		CapUploadDocument, CapDeleteDocument, CapViewDocuments,
	),
	RoleProjectManager: capSet(
		CapCreateProject, CapEditProject, CapViewProjects,
		CapManageSections,
		CapViewDistricts, CapViewReports,
		CapUploadDocument, CapDeleteDocument, CapViewDocuments,
	),
	RoleProjectEngineer: capSet(
		CapSubmitReport, CapViewReports,
		CapViewDistricts, CapViewProjects,
		CapUploadDocument, CapViewDocuments,
	),
	RoleViewer: capSet(
		CapViewDistricts, CapViewProjects, CapViewReports, CapViewDocuments,
	),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Allowed reports whether role holds the capability. Unknown roles and
// unknown capabilities are both denied.
func Allowed(role Role, cap Capability) bool {
	set, ok := permissions[role]
	if !ok {
		return false
	}
	_, ok = set[cap]
	return ok
}

// HasPermission is the identity-level check: a nil identity never holds any
// capability.
func HasPermission(id *Identity, cap Capability) bool {
	if id == nil {
		return false
	}
	return Allowed(id.Role, cap)
}
