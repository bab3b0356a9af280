package resources

import "github.com/arahman1700/nit-logistics-portal/internal/models"

// Default is the catalogue of list resources served to the admin views.
func Default() *Registry {
	reg, err := NewRegistry(
		define[models.Project]("projects", "Projects", "management", "name asc",
			col("code", "Code", ColumnText, func(p *models.Project) any { return p.Code }),
			col("name", "Name", ColumnText, func(p *models.Project) any { return p.Name }),
			col("client", "Client", ColumnText, func(p *models.Project) any { return p.Client }),
			col("location", "Location", ColumnText, func(p *models.Project) any { return p.Location }),
			col("status", "Status", ColumnStatus, func(p *models.Project) any { return p.Status }),
			col("start_date", "Start", ColumnDate, func(p *models.Project) any { return p.StartDate }),
			col("end_date", "End", ColumnDate, func(p *models.Project) any { return p.EndDate }),
		),
		define[models.Warehouse]("warehouses", "Warehouses", "management", "name asc",
			col("code", "Code", ColumnText, func(w *models.Warehouse) any { return w.Code }),
			col("name", "Name", ColumnText, func(w *models.Warehouse) any { return w.Name }),
			col("location", "Location", ColumnText, func(w *models.Warehouse) any { return w.Location }),
			col("capacity", "Capacity", ColumnNumber, func(w *models.Warehouse) any { return w.Capacity }),
			col("current_stock", "Current Stock", ColumnNumber, func(w *models.Warehouse) any { return w.CurrentStock }),
		),
		define[models.Supplier]("suppliers", "Suppliers", "transport", "name asc",
			col("code", "Code", ColumnText, func(s *models.Supplier) any { return s.Code }),
			col("name", "Name", ColumnText, func(s *models.Supplier) any { return s.Name }),
			col("category", "Category", ColumnText, func(s *models.Supplier) any { return s.Category }),
			col("city", "City", ColumnText, func(s *models.Supplier) any { return s.City }),
			col("contact", "Contact", ColumnText, func(s *models.Supplier) any { return s.ContactName }),
			col("status", "Status", ColumnStatus, func(s *models.Supplier) any { return s.Status }),
		),
		define[models.InventoryItem]("inventory", "Inventory Levels", "warehouse", "name asc",
			col("code", "Item Code", ColumnText, func(i *models.InventoryItem) any { return i.SKU }),
			col("name", "Description", ColumnText, func(i *models.InventoryItem) any { return i.Name }),
			col("category", "Category", ColumnText, func(i *models.InventoryItem) any { return i.Category }),
			col("unit", "Unit", ColumnText, func(i *models.InventoryItem) any { return i.Unit }),
			col("quantity", "Available Qty", ColumnNumber, func(i *models.InventoryItem) any { return i.Quantity }),
			col("min_quantity", "Min Qty", ColumnNumber, func(i *models.InventoryItem) any { return i.MinQuantity }),
			col("unit_price", "Unit Price", ColumnMoney, func(i *models.InventoryItem) any { return i.UnitPrice }),
			col("stock_status", "Stock", ColumnStatus, func(i *models.InventoryItem) any { return i.StockSeverity() }),
		),
		define[models.JobOrder]("job-orders", "Job Orders", "transport", "created_at desc",
			col("number", "ID", ColumnText, func(j *models.JobOrder) any { return j.OrderNumber }),
			col("type", "Type", ColumnText, func(j *models.JobOrder) any { return j.Type }),
			col("project", "Project", ColumnText, func(j *models.JobOrder) any { return j.ProjectName }),
			col("requester", "Requester", ColumnText, func(j *models.JobOrder) any { return j.RequestedBy }),
			col("priority", "Priority", ColumnText, func(j *models.JobOrder) any { return j.Priority }),
			col("due_date", "Due", ColumnDate, func(j *models.JobOrder) any { return j.DueDate }),
			col("status", "Status", ColumnStatus, func(j *models.JobOrder) any { return j.Status }),
		),
		define[models.MRRV]("mrrv", "Receipt Vouchers (MRRV)", "warehouse", "created_at desc",
			col("number", "ID", ColumnText, func(m *models.MRRV) any { return m.FormNumber }),
			col("date", "Date", ColumnDate, func(m *models.MRRV) any { return m.DocumentDate }),
			col("po_number", "PO Number", ColumnText, func(m *models.MRRV) any { return m.PONumber }),
			col("value", "Value", ColumnMoney, func(m *models.MRRV) any { return m.TotalValue }),
			col("rfim_required", "Inspection", ColumnBool, func(m *models.MRRV) any { return m.RFIMRequired }),
			col("status", "Status", ColumnStatus, func(m *models.MRRV) any { return m.Status }),
		),
		define[models.MIRV]("mirv", "Issue Vouchers (MIRV)", "warehouse", "created_at desc",
			col("number", "ID", ColumnText, func(m *models.MIRV) any { return m.FormNumber }),
			col("project", "Project", ColumnText, func(m *models.MIRV) any { return m.ProjectName }),
			col("requester", "Requester", ColumnText, func(m *models.MIRV) any { return m.RequestedBy }),
			col("date", "Date", ColumnDate, func(m *models.MIRV) any { return m.DocumentDate }),
			col("value", "Value", ColumnMoney, func(m *models.MIRV) any { return m.TotalValue }),
			col("approval_level", "Approval Level", ColumnText, func(m *models.MIRV) any { return m.ApprovalLevel }),
			col("status", "Status", ColumnStatus, func(m *models.MIRV) any { return m.Status }),
		),
		define[models.MRV]("mrv", "Return Vouchers (MRV)", "warehouse", "created_at desc",
			col("number", "ID", ColumnText, func(m *models.MRV) any { return m.FormNumber }),
			col("return_type", "Return Type", ColumnText, func(m *models.MRV) any { return m.ReturnType }),
			col("date", "Date", ColumnDate, func(m *models.MRV) any { return m.DocumentDate }),
			col("project", "Project", ColumnText, func(m *models.MRV) any { return m.ProjectName }),
			col("value", "Value", ColumnMoney, func(m *models.MRV) any { return m.TotalValue }),
			col("status", "Status", ColumnStatus, func(m *models.MRV) any { return m.Status }),
		),
		define[models.RFIM]("rfim", "Inspection Requests (RFIM)", "quality", "created_at desc",
			col("number", "ID", ColumnText, func(r *models.RFIM) any { return r.FormNumber }),
			col("inspection_type", "Type", ColumnText, func(r *models.RFIM) any { return r.InspectionType }),
			col("priority", "Priority", ColumnText, func(r *models.RFIM) any { return r.Priority }),
			col("inspector", "Inspector", ColumnText, func(r *models.RFIM) any { return r.InspectorID }),
			col("inspected_at", "Inspected", ColumnDate, func(r *models.RFIM) any { return r.InspectedAt }),
			col("status", "Status", ColumnStatus, func(r *models.RFIM) any { return r.Status }),
		),
	)
	if err != nil {
		panic(err)
	}
	return reg
}
