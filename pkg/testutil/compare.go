package testutil

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

////----------------------------------------
///  Comparison options
//------------------------------------------
// This file contains go-cmp options for comparing expected resources against
// what the API server returns. The API server fills in runtime fields (UIDs,
// resource versions) and applies schema defaults, so declarative expectations
// need these filtered out.

// filterByFieldName returns a path filter matching any step through a struct
// field with the given name.
func filterByFieldName(fieldName string) func(cmp.Path) bool {
	return func(p cmp.Path) bool {
		for _, step := range p {
			if sf, ok := step.(cmp.StructField); ok && sf.Name() == fieldName {
				return true
			}
		}
		return false
	}
}

// IgnoreStatus ignores the Status field of compared resources.
func IgnoreStatus() cmp.Option {
	return cmp.FilterPath(filterByFieldName("Status"), cmp.Ignore())
}

// IgnoreMetaRuntimeFields ignores ObjectMeta fields assigned by the API
// server at runtime. Name, namespace, labels and annotations still compare.
func IgnoreMetaRuntimeFields() cmp.Option {
	return cmpopts.IgnoreFields(metav1.ObjectMeta{},
		"UID",
		"ResourceVersion",
		"Generation",
		"CreationTimestamp",
		"DeletionTimestamp",
		"DeletionGracePeriodSeconds",
		"ManagedFields",
	)
}

// IgnoreServiceRuntimeFields ignores ServiceSpec fields the API server
// assigns or defaults: cluster IPs, IP families, session affinity and the
// per-port protocol/node port/target port defaulting.
func IgnoreServiceRuntimeFields() cmp.Option {
	return cmp.Options{
		cmpopts.IgnoreFields(corev1.ServiceSpec{},
			"ClusterIP",
			"ClusterIPs",
			"Type",
			"SessionAffinity",
			"IPFamilies",
			"IPFamilyPolicy",
			"InternalTrafficPolicy",
		),
		cmpopts.IgnoreFields(corev1.ServicePort{},
			"Protocol",
			"NodePort",
			"TargetPort",
		),
	}
}

// IgnoreDeploymentRuntimeFields ignores the Deployment status and the
// revision annotation maintained by the deployment controller.
func IgnoreDeploymentRuntimeFields() cmp.Option {
	return cmp.Options{
		cmpopts.IgnoreFields(appsv1.Deployment{}, "Status"),
		cmpopts.IgnoreMapEntries(func(key, _ string) bool {
			return key == "deployment.kubernetes.io/revision"
		}),
	}
}

// IgnoreDeploymentSpecDefaults ignores DeploymentSpec fields that receive
// schema defaults when unset.
func IgnoreDeploymentSpecDefaults() cmp.Option {
	return cmpopts.IgnoreFields(appsv1.DeploymentSpec{},
		"Strategy",
		"RevisionHistoryLimit",
		"ProgressDeadlineSeconds",
	)
}

// IgnorePodSpecDefaults ignores PodSpec and Container fields that receive
// schema defaults when unset.
func IgnorePodSpecDefaults() cmp.Option {
	return cmp.Options{
		cmpopts.IgnoreFields(corev1.PodSpec{},
			"RestartPolicy",
			"TerminationGracePeriodSeconds",
			"DNSPolicy",
			"SchedulerName",
		),
		cmpopts.IgnoreFields(corev1.Container{},
			"ImagePullPolicy",
			"TerminationMessagePath",
			"TerminationMessagePolicy",
		),
		cmpopts.IgnoreFields(corev1.ContainerPort{}, "Protocol"),
	}
}

// IgnorePodSpecDefaultsExceptPullPolicy is IgnorePodSpecDefaults but keeps
// ImagePullPolicy comparable, for tests that assert the pull policy.
func IgnorePodSpecDefaultsExceptPullPolicy() cmp.Option {
	return cmp.Options{
		cmpopts.IgnoreFields(corev1.PodSpec{},
			"RestartPolicy",
			"TerminationGracePeriodSeconds",
			"DNSPolicy",
			"SchedulerName",
		),
		cmpopts.IgnoreFields(corev1.Container{},
			"TerminationMessagePath",
			"TerminationMessagePolicy",
		),
		cmpopts.IgnoreFields(corev1.ContainerPort{}, "Protocol"),
	}
}

// CompareSpecOnly returns options that compare only the Spec of resources,
// ignoring TypeMeta, ObjectMeta and Status entirely.
func CompareSpecOnly() []cmp.Option {
	return []cmp.Option{
		cmp.FilterPath(filterByFieldName("TypeMeta"), cmp.Ignore()),
		cmp.FilterPath(filterByFieldName("ObjectMeta"), cmp.Ignore()),
		cmp.FilterPath(filterByFieldName("Status"), cmp.Ignore()),
	}
}
