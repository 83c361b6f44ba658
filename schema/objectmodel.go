package schema

import (
	"slices"

	"github.com/hupe1980/vimgo/document"
)

// ObjectModelVersion is the object model version the registry describes.
var ObjectModelVersion = document.CurrentHeader().ObjectModelVersion

var objectModel = []TableDescriptor{
	{
		Name:   document.TableGeometry,
		Fields: fields(daabox("Box"), numeric("VertexCount", "FaceCount")),
	},
	{
		Name:   document.TableNode,
		Fields: withElement(),
	},
	{
		Name: document.TableElement,
		Fields: fields(
			numeric("Id"),
			strs("Type", "Name", "FamilyName"),
			dvector3("Location"),
			one(relation(document.TableLevel, "Level")),
			one(relation(document.TablePhase, "Phase")),
			one(relation(document.TableCategory, "Category")),
			one(relation(document.TableWorkset, "Workset")),
			one(relation(document.TableDesignOption, "DesignOption")),
			one(relation(document.TableView, "OwnerView")),
			one(relation(document.TableGroup, "Group")),
			one(relation(document.TableAssemblyInstance, "AssemblyInstance")),
			one(relation(document.TableModel, "Model")),
			one(relation(document.TableRoom, "Room")),
		),
	},
	{
		Name:   document.TableWorkset,
		Fields: withElement(strs("Kind")),
	},
	{
		Name:   document.TableAssemblyInstance,
		Fields: withElement(strs("AssemblyTypeName"), dvector3("Position")),
	},
	{
		Name:   document.TableGroup,
		Fields: withElement(strs("GroupType"), dvector3("Position")),
	},
	{
		Name:   document.TableDesignOption,
		Fields: withElement(numeric("IsPrimary")),
	},
	{
		Name:   document.TableLevel,
		Fields: withElement(numeric("Elevation")),
	},
	{
		Name:   document.TablePhase,
		Fields: withElement(),
	},
	{
		Name: document.TableRoom,
		Fields: withElement(
			numeric("BaseOffset", "LimitOffset", "UnboundedHeight", "Volume", "Perimeter", "Area"),
			strs("Number"),
			one(relation(document.TableLevel, "UpperLimit")),
		),
	},
	{
		Name: document.TableModel,
		Fields: fields(
			strs("Title", "Guid", "PathName", "PlaceName", "WeatherStationName", "ProjectLocation",
				"IssueDate", "Status", "ClientName", "Address", "Name", "Number", "Author",
				"BuildingName", "OrganizationName", "OrganizationDescription", "Product", "Version", "User"),
			numeric("IsMetric", "NumSaves", "IsLinked", "IsDetached", "IsWorkshared",
				"Latitude", "Longitude", "TimeZone", "Elevation"),
			one(relation(document.TableView, "ActiveView")),
			one(relation(document.TableFamily, "OwnerFamily")),
		),
	},
	{
		Name: document.TableCategory,
		Fields: fields(
			strs("Name", "CategoryType"),
			numeric("Id"),
			dvector3("LineColor"),
			one(relation(document.TableCategory, "Parent")),
			one(relation(document.TableMaterial, "Material")),
		),
	},
	{
		Name: document.TableFace,
		Fields: withElement(
			strs("Type"),
			numeric("PeriodU", "PeriodV", "Radius1", "Radius2", "MinU", "MinV", "MaxU", "MaxV", "Area"),
			one(relation(document.TableMaterial, "Material")),
		),
	},
	{
		Name: document.TableFamily,
		Fields: withElement(
			strs("StructuralMaterialType", "StructuralSectionShape"),
			one(relation(document.TableCategory, "FamilyCategory")),
		),
	},
	{
		Name:   document.TableFamilyType,
		Fields: withElement(one(relation(document.TableFamily, "Family"))),
	},
	{
		Name: document.TableFamilyInstance,
		Fields: withElement(
			numeric("FacingFlipped", "HandFlipped", "Mirrored", "HasModifiedGeometry", "Scale"),
			dvector3("FacingOrientation"),
			dvector3("HandOrientation"),
			dvector3("BasisX"),
			dvector3("BasisY"),
			dvector3("BasisZ"),
			dvector3("Translation"),
			one(relation(document.TableFamilyType, "FamilyType")),
			one(relation(document.TableElement, "Host")),
			one(relation(document.TableRoom, "FromRoom")),
			one(relation(document.TableRoom, "ToRoom")),
		),
	},
	{
		Name: document.TableView,
		Fields: withElement(
			strs("Title"),
			dvector3("Up"),
			dvector3("Right"),
			dvector3("Origin"),
			dvector3("ViewDirection"),
			dvector3("ViewPosition"),
			one(relation(document.TableCamera, "Camera")),
		),
	},
	{
		Name: document.TableCamera,
		Fields: numeric("Id", "IsPerspective", "VerticalExtent", "HorizontalExtent",
			"FarDistance", "NearDistance", "TargetDistance", "RightOffset", "UpOffset"),
	},
	{
		Name: document.TableMaterial,
		Fields: fields(
			strs("Name", "MaterialCategory", "ColorTextureFile", "NormalTextureFile"),
			numeric("Id", "Glossiness", "Smoothness", "Transparency", "NormalAmount"),
			dvector3("Color"),
			dvector2("ColorUvScaling"),
			dvector2("ColorUvOffset"),
			dvector2("NormalUvScaling"),
			dvector2("NormalUvOffset"),
		),
	},
}

// ObjectModel returns the descriptors of the object model tables. The
// returned slice is a copy.
func ObjectModel() []TableDescriptor {
	return slices.Clone(objectModel)
}

// Lookup returns the descriptor of a table by full name or table key
// ("Rvt.Level" or "Level").
func Lookup(name string) (TableDescriptor, bool) {
	key := document.TableKey(name)
	for _, t := range objectModel {
		if t.Name == name || document.TableKey(t.Name) == key {
			return t, true
		}
	}
	return TableDescriptor{}, false
}

// ObjectModelSchema returns the schema of a document holding every object
// model table with every column.
func ObjectModelSchema() VimSchema {
	s := VimSchema{Version: ObjectModelVersion.String()}
	for _, t := range objectModel {
		s.Tables = append(s.Tables, t.Schema())
	}
	return s
}
